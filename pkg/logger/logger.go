// Package logger builds the service zap logger and carries the context keys
// request-scoped fields travel under.
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for file sinks.
const (
	rotateMaxSizeMB = 100
	rotateBackups   = 5
	rotateMaxAgeDay = 30
)

// Config selects level, encoding, sink, and the service identity fields
// stamped on every line.
type Config struct {
	Level            string  // debug, info, warn, error
	Format           string  // json or console
	OutputPath       string  // stdout, stderr, or a file path (rotated)
	SlowQuerySeconds float64 // threshold for the gorm adapter
	EnableSampling   bool    // cap per-second log volume
	ServiceName      string
	ServiceVersion   string
	Environment      string
}

// NewWithConfig builds the application logger. Every line carries the
// service, version, and environment fields so aggregated logs stay
// attributable.
func NewWithConfig(cfg Config) (*zap.Logger, error) {
	core := zapcore.NewCore(encoderFor(cfg), sinkFor(cfg.OutputPath), levelFor(cfg.Level))

	if cfg.EnableSampling {
		// First 100 entries per second pass, then 1 in 10.
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 10)
	}

	log := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).With(
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.String("environment", cfg.Environment),
	)

	return log, nil
}

func levelFor(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderFor(cfg Config) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	if cfg.Environment != "production" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

func sinkFor(path string) zapcore.WriteSyncer {
	switch path {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	default:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotateMaxSizeMB,
			MaxBackups: rotateBackups,
			MaxAge:     rotateMaxAgeDay,
			Compress:   true,
		})
	}
}

// ContextKey is the type under which request-scoped values are stored.
type ContextKey string

const (
	// RequestIDKey carries the per-request correlation ID.
	RequestIDKey ContextKey = "request_id"
	// TraceIDKey carries the active trace ID when tracing is on.
	TraceIDKey ContextKey = "trace_id"
	// UserIDKey carries the authenticated user ID.
	UserIDKey ContextKey = "user_id"
	// UserRoleKey carries the authenticated user role.
	UserRoleKey ContextKey = "user_role"
)

// Keys emitted by WithContext; the key string doubles as the field name.
var contextFields = []ContextKey{RequestIDKey, TraceIDKey, UserIDKey, UserRoleKey}

// WithContext returns the logger enriched with whichever request-scoped
// fields are present on ctx.
func WithContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, len(contextFields))
	for _, key := range contextFields {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, zap.String(string(key), v))
		}
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// GetRequestID returns the request ID on ctx, or "".
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetTraceID returns the trace ID on ctx, or "".
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

// GetUserID returns the authenticated user ID on ctx, or "".
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func stringValue(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
