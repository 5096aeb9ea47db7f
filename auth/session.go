// Package auth resolves the identity of the current request: access tokens,
// password hashing, and the Session carried in a context.Context.
package auth

import "context"

// Session is the resolved identity of the caller.
type Session struct {
	UserID string
	Email  string
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom extracts the session from ctx. ok is false when the request is
// anonymous.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}
