package session

import "context"

// contextKey is the type for context values to avoid collisions
type contextKey string

// ContextKey holds the request's *Session.
const ContextKey contextKey = "storefront.session"

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ContextKey, s)
}

// FromContext retrieves the session stored by NewContext.
// Returns nil if none was set.
func FromContext(ctx context.Context) *Session {
	v := ctx.Value(ContextKey)
	if v == nil {
		return nil
	}
	return v.(*Session)
}
