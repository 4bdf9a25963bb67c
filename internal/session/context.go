package session

import "context"

type sidKey struct{}

// WithID returns ctx carrying session id sid.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey{}, sid)
}

// IDFromContext returns the session id set by Middleware, or "".
func IDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey{}).(string)
	return sid
}
