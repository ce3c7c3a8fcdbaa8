// Package observability wires the process-wide OpenTelemetry providers.
package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"admin-panel-api/internal/config"
)

// ShutdownFunc flushes pending telemetry. Invoke it on exit.
type ShutdownFunc func(context.Context) error

// Init configures the global tracer and meter providers. With telemetry
// disabled it leaves the otel globals untouched and returns a no-op shutdown.
func Init(ctx context.Context, cfg *config.Config, log *zap.Logger) (ShutdownFunc, error) {
	if !cfg.Telemetry.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Logger.ServiceName),
			attribute.String("service.version", cfg.Logger.ServiceVersion),
			attribute.String("deployment.environment", cfg.App.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	exporter, err := newSpanExporter(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)
	otel.SetMeterProvider(meterProvider)

	log.Info("telemetry initialized", zap.String("otlp_endpoint", cfg.Telemetry.Endpoint))

	return func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}, nil
}

// newSpanExporter builds the OTLP exporter, falling back to stdout when no
// collector endpoint is configured or the exporter cannot be constructed.
func newSpanExporter(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("failed to initialize OTLP trace exporter, falling back to stdout", zap.Error(err))
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return exporter, nil
}
