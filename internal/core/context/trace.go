package context

import (
	"context"
)

// TraceContext carries request correlation identifiers. The trace
// middleware fills it from incoming headers or generates fresh ids.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace stores trace identifiers on the context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace identifiers, or nil outside a traced request.
func GetTrace(ctx context.Context) *TraceContext {
	trace, _ := ctx.Value(traceKey{}).(*TraceContext)
	return trace
}
