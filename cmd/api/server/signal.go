package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// stopSignals are the signals that trigger a graceful shutdown.
var stopSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignal derives a context canceled on SIGINT or SIGTERM. The returned
// stop function releases the signal handler; a second signal then kills the
// process the default way.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, stopSignals...)
}
