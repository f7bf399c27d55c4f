package catalog

import "context"

// Session is the request/session state the surrounding application threads
// through every catalog call. The tree engine never inspects it; handlers
// and actions may use it for permission checks.
type Session struct {
	UserID string
	Locale string
	Values map[string]any
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
