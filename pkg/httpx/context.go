package httpx

import "context"

type ctxKey string

const ctxKeySession ctxKey = "session"

// ContextWithSession attaches the resolved session to ctx.
func ContextWithSession[T any](ctx context.Context, s *T) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

// SessionFromContext returns the session attached by SessionMiddleware, or
// nil when the request is anonymous.
func SessionFromContext[T any](ctx context.Context) *T {
	if v, ok := ctx.Value(ctxKeySession).(*T); ok {
		return v
	}
	return nil
}
