package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	appctx "partshub/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware extracts or generates request and trace IDs. An active
// OpenTelemetry span takes precedence over the X-Trace-ID header.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		traceCtx := appctx.NewTraceContext(c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceCtx.TraceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(appctx.WithTrace(ctx, traceCtx))

		c.Set("trace_id", traceCtx.TraceID)
		c.Set("request_id", traceCtx.RequestID)

		c.Header(HeaderRequestID, traceCtx.RequestID)
		c.Header(HeaderTraceID, traceCtx.TraceID)

		c.Next()
	}
}
