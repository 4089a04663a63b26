package auth

import (
	"context"
	"time"

	"github.com/vanerisk/vane/pkg/domain/types"
)

// Session is an authenticated user decoded from the auth provider's access token.
type Session struct {
	UserID       types.UserID `json:"user_id"`
	Email        string       `json:"email"`
	ExpiresAt    time.Time    `json:"expires_at"`
	AccessToken  string       `json:"-" masq:"secret"`
	RefreshToken string       `json:"-" masq:"secret"`
}

// IsExpired reports whether the access token is past its expiry.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type ctxSessionKey struct{}

// ContextWithSession stores the session in ctx.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxSessionKey{}).(*Session)
	return s, ok && s != nil
}
