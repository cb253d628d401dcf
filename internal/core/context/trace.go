// Package context carries request-scoped tracing identifiers.
package context

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// TraceContext identifies the request or background job a piece of work belongs to.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceKey struct{}

// WithTrace returns a copy of ctx carrying tc.
func WithTrace(ctx context.Context, tc TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, tc)
}

// TraceFrom returns the TraceContext carried by ctx.
func TraceFrom(ctx context.Context) (TraceContext, bool) {
	tc, ok := ctx.Value(traceKey{}).(TraceContext)
	return tc, ok
}

// RequestID returns the request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	tc, _ := TraceFrom(ctx)
	return tc.RequestID
}

// NewSpanID returns a random 16 hex digit span identifier.
func NewSpanID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// Background starts a trace for work no request initiated, such as an
// outbox relay batch. The request ID is prefixed with job.
func Background(ctx context.Context, job string) context.Context {
	traceID := uuid.New()
	return WithTrace(ctx, TraceContext{
		TraceID:   traceID.String(),
		SpanID:    NewSpanID(),
		RequestID: job + "-" + traceID.String()[:8],
	})
}
