package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
)

const (
	authCacheTTL = 5 * time.Minute
)

type cachedSession struct {
	session   *auth.Session
	expiresAt time.Time
}

type authCache struct {
	cache sync.Map
	now   func() time.Time
}

func newAuthCache() *authCache {
	return &authCache{now: time.Now}
}

func (c *authCache) get(accessToken string) (*auth.Session, bool) {
	val, ok := c.cache.Load(accessToken)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedSession)
	if c.now().After(cached.expiresAt) {
		c.cache.Delete(accessToken)
		return nil, false
	}

	return cached.session, true
}

// set caches the session for the TTL, or until the token expires if sooner
func (c *authCache) set(session *auth.Session) {
	if session == nil || session.AccessToken == "" {
		return
	}

	expiresAt := c.now().Add(authCacheTTL)
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}

	c.cache.Store(session.AccessToken, &cachedSession{
		session:   session,
		expiresAt: expiresAt,
	})
}

func (c *authCache) remove(accessToken string) {
	c.cache.Delete(accessToken)
}

// validateTokenWithCache validates token with cache
func (uc *AuthUseCase) validateTokenWithCache(ctx context.Context, accessToken string) (*auth.Session, error) {
	// Check cache first
	if session, ok := uc.cache.get(accessToken); ok {
		if session.IsExpired() {
			uc.cache.remove(accessToken)
			return nil, goerr.Wrap(ErrUnauthenticated, "token expired")
		}
		return session, nil
	}

	// Cache miss, verify with the provider's key
	session, err := uc.provider.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "invalid access token", goerr.V("cause", err.Error()))
	}

	uc.cache.set(session)
	return session, nil
}
