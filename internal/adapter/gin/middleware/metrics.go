package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "admin-panel-api/internal/adapter/gin/middleware"

// Metrics records request counts and latencies against the global meter
// provider. With telemetry disabled the global provider is a no-op.
func Metrics() gin.HandlerFunc {
	meter := otel.Meter(meterName)
	requests, _ := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests handled"))
	duration, _ := meter.Float64Histogram("http.server.request_duration",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"))

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		requests.Add(c.Request.Context(), 1, attrs)
		duration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}
