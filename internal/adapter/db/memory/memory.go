// Package memory provides in-memory implementations of the product and user
// repositories. It backs the default mock profile: state lives in process,
// every operation pays a fixed simulated latency, and the stores boot from a
// canned data set so the API is usable without any external services.
package memory

import (
	"context"
	"time"
)

// wait simulates backend latency before an operation touches store state.
// It returns early with the context error when the caller gives up.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
