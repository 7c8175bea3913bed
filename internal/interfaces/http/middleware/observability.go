package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Observability returns a gin middleware that spans each request,
// records Prometheus metrics and writes one access log line. Metric
// labels use the route template, never the raw URL.
func Observability(tracer trace.Tracer, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.Request.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(constants.ContextKeyRequestID), requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}

		metrics.RecordHTTPRequest(path, c.Request.Method, status, duration)

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.path", path),
			attribute.Int("http.status_code", status),
			attribute.String("http.client_ip", c.ClientIP()),
		)

		log.Info(c.Request.Context(), "request served",
			logger.String("request_id", requestID),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("duration", duration))
	}
}
