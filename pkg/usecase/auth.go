package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
)

// AuthUseCaseInterface is implemented by AuthUseCase and NoAuthnUseCase
type AuthUseCaseInterface interface {
	// ValidateToken returns the session of a valid access token
	ValidateToken(ctx context.Context, accessToken string) (*auth.Session, error)

	// HandleCallback exchanges an authorization code for a session
	HandleCallback(ctx context.Context, code, codeVerifier string) (*auth.Session, error)

	// Logout forgets the access token
	Logout(ctx context.Context, accessToken string) error

	IsNoAuthn() bool
}

type AuthUseCase struct {
	provider interfaces.AuthProvider
	cache    *authCache
}

var _ AuthUseCaseInterface = (*AuthUseCase)(nil)

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithAuthClock replaces the clock of the token cache
func WithAuthClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.cache.now = now
	}
}

func NewAuthUseCase(provider interfaces.AuthProvider, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		provider: provider,
		cache:    newAuthCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// HandleCallback processes the OAuth callback
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code, codeVerifier string) (*auth.Session, error) {
	if code == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "authorization code is required")
	}

	session, err := uc.provider.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for session")
	}

	uc.cache.set(session)
	return session, nil
}

// ValidateToken validates the token and returns user info
func (uc *AuthUseCase) ValidateToken(ctx context.Context, accessToken string) (*auth.Session, error) {
	if accessToken == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "access token is required")
	}
	return uc.validateTokenWithCache(ctx, accessToken)
}

// Logout removes the token from the cache. The provider session itself
// expires on its own.
func (uc *AuthUseCase) Logout(ctx context.Context, accessToken string) error {
	uc.cache.remove(accessToken)
	return nil
}
