// Package app assembles the service and owns its lifecycle from boot to
// graceful shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"admin-panel-api/cmd/api/di"
	"admin-panel-api/cmd/api/server"
	"admin-panel-api/internal/config"
	"admin-panel-api/internal/platform/observability"
	"admin-panel-api/pkg/logger"
)

// App is the assembled service: configuration, logger, wired container, and
// the HTTP server, plus the telemetry teardown hook.
type App struct {
	cfg       *config.Config
	log       *zap.Logger
	srv       *server.Server
	container *di.Container

	stopTelemetry observability.ShutdownFunc
}

// New loads configuration and wires every layer. Nothing is listening yet
// when it returns; Run starts the server.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	stopTelemetry, err := observability.Init(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	container, err := di.NewContainer(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("build container: %w", err)
	}

	return &App{
		cfg:           cfg,
		log:           l,
		srv:           server.New(cfg, l, container.Router),
		container:     container,
		stopTelemetry: stopTelemetry,
	}, nil
}

// Run serves until ctx is canceled or the server fails, then tears the
// application down in order.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("panic in application", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	a.log.Info("starting application",
		zap.String("service", a.cfg.Logger.ServiceName),
		zap.String("version", a.cfg.Logger.ServiceVersion),
		zap.String("environment", a.cfg.App.Env),
		zap.String("storage_driver", a.cfg.Storage.Driver),
		zap.Bool("auth_enabled", a.cfg.Auth.Enabled),
	)

	serveErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serveErr <- fmt.Errorf("server panic: %v", r)
			}
		}()
		if err := a.srv.Start(); err != nil {
			serveErr <- fmt.Errorf("server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		return a.shutdown()
	case err := <-serveErr:
		return err
	}
}

// shutdown drains the server, flushes telemetry, and releases container
// resources, all bounded by the configured timeout. Every step runs even if
// an earlier one fails.
func (a *App) shutdown() error {
	timeout := time.Duration(a.cfg.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.log.Info("draining", zap.Duration("timeout", timeout))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"http server", func() error { return a.srv.Stop(ctx) }},
		{"telemetry", func() error { return a.stopTelemetry(ctx) }},
		{"container", a.container.Close},
		{"logger", a.syncLogger},
	}

	var errs []error
	for _, step := range steps {
		if err := step.fn(); err != nil {
			a.log.Error("shutdown step failed", zap.String("step", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	a.log.Info("application shutdown complete")

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// syncLogger flushes buffered log entries. Syncing a terminal fails with
// EINVAL on linux, which is not worth reporting.
func (a *App) syncLogger() error {
	err := a.log.Sync()
	if err == nil || strings.Contains(err.Error(), "invalid argument") {
		return nil
	}
	return err
}

// initLogger builds the service logger from the logger config section plus
// the runtime environment.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Env,
	})
}

// getConfigPath resolves the directory holding app.env.
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
