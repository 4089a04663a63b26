package usecase

import (
	"context"

	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// NoAuthnUseCase provides authentication using a specified user (for development/testing)
type NoAuthnUseCase struct {
	userID types.UserID
	email  string
}

var _ AuthUseCaseInterface = (*NoAuthnUseCase)(nil)

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance with specified user info
func NewNoAuthnUseCase(userID types.UserID, email string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		userID: userID,
		email:  email,
	}
}

func (uc *NoAuthnUseCase) session() *auth.Session {
	return &auth.Session{
		UserID: uc.userID,
		Email:  uc.email,
	}
}

// HandleCallback returns the session of the specified user
func (uc *NoAuthnUseCase) HandleCallback(ctx context.Context, code, codeVerifier string) (*auth.Session, error) {
	return uc.session(), nil
}

// ValidateToken always returns the session of the specified user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, accessToken string) (*auth.Session, error) {
	return uc.session(), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, accessToken string) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
