package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	appctx "fulfilment/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Keys under which Trace stores identifiers on the gin context.
const (
	ContextKeyRequestID = "request_id"
	ContextKeyTraceID   = "trace_id"
)

// Trace attaches request and trace identifiers to the request context and
// echoes them in the response headers. Incoming headers win; an active
// OpenTelemetry span is used next; otherwise fresh IDs are generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		traceID := c.GetHeader(HeaderTraceID)
		spanID := appctx.NewSpanID()
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			if traceID == "" {
				traceID = sc.TraceID().String()
			}
			spanID = sc.SpanID().String()
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx = appctx.WithTrace(ctx, appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    spanID,
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Set(ContextKeyTraceID, traceID)
		c.Set(ContextKeyRequestID, requestID)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
