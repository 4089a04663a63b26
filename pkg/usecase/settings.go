package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

type SettingsUseCase struct {
	repo         interfaces.Repository
	profiles     *profileLoader
	billing      interfaces.BillingService
	authProvider interfaces.AuthProvider
}

func NewSettingsUseCase(repo interfaces.Repository, profiles *profileLoader, billing interfaces.BillingService, authProvider interfaces.AuthProvider) *SettingsUseCase {
	return &SettingsUseCase{
		repo:         repo,
		profiles:     profiles,
		billing:      billing,
		authProvider: authProvider,
	}
}

// Settings is the page data of the account settings page.
type Settings struct {
	Profile      *model.Profile      `json:"profile"`
	Subscription *model.Subscription `json:"subscription"`
}

// Load returns the profile and, when the user is a billing customer, the
// latest subscription. A billing provider failure only leaves the
// subscription empty.
func (uc *SettingsUseCase) Load(ctx context.Context, session *auth.Session) (*Settings, error) {
	profile, err := uc.profiles.load(ctx, session)
	if err != nil {
		return nil, err
	}

	result := &Settings{Profile: profile}
	if profile.StripeCustomerID == "" || uc.billing == nil {
		return result, nil
	}

	sub, err := uc.billing.LatestSubscription(ctx, profile.StripeCustomerID)
	if err != nil {
		logging.From(ctx).Error("failed to fetch subscription",
			slog.Any("error", err),
			slog.String("user_id", profile.ID.String()))
		return result, nil
	}
	result.Subscription = sub
	return result, nil
}

// DeleteAccount removes the user at the identity provider, then the local
// watches and profile
func (uc *SettingsUseCase) DeleteAccount(ctx context.Context, session *auth.Session) error {
	if session == nil || session.UserID == "" {
		return goerr.Wrap(ErrUnauthenticated, "session is required")
	}
	if uc.authProvider == nil {
		return goerr.New("auth provider is not configured")
	}

	if err := uc.authProvider.DeleteUser(ctx, session.UserID); err != nil {
		return goerr.Wrap(err, "failed to delete auth user", goerr.V(UserIDKey, session.UserID))
	}
	if err := uc.repo.Watch().DeleteAll(ctx, session.UserID); err != nil {
		return goerr.Wrap(err, "failed to delete watches", goerr.V(UserIDKey, session.UserID))
	}
	if err := uc.repo.Profile().Delete(ctx, session.UserID); err != nil {
		return goerr.Wrap(err, "failed to delete profile", goerr.V(UserIDKey, session.UserID))
	}

	logging.From(ctx).Info("account deleted", slog.String("user_id", session.UserID.String()))
	return nil
}
