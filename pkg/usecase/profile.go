package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// profileLoader returns the profile of a signed-in user, creating a free
// profile the first time the user is seen.
type profileLoader struct {
	repo interfaces.Repository
	now  func() time.Time
}

func newProfileLoader(repo interfaces.Repository, now func() time.Time) *profileLoader {
	return &profileLoader{repo: repo, now: now}
}

func (l *profileLoader) load(ctx context.Context, session *auth.Session) (*model.Profile, error) {
	if session == nil || session.UserID == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "session is required")
	}

	profile, err := l.repo.Profile().Get(ctx, session.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, session.UserID))
	}

	profile = model.NewProfile(session.UserID, session.Email, l.now())
	if err := l.repo.Profile().Put(ctx, profile); err != nil {
		return nil, goerr.Wrap(err, "failed to create profile", goerr.V(UserIDKey, session.UserID))
	}
	logging.From(ctx).Info("profile created", slog.String("user_id", session.UserID.String()))
	return profile, nil
}

// find returns the profile without creating one; nil when the user has none.
func (l *profileLoader) find(ctx context.Context, session *auth.Session) (*model.Profile, error) {
	if session == nil {
		return nil, nil
	}
	profile, err := l.repo.Profile().Get(ctx, session.UserID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, session.UserID))
	}
	return profile, nil
}

// save stamps UpdatedAt and writes the profile.
func (l *profileLoader) save(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = l.now()
	if err := l.repo.Profile().Put(ctx, profile); err != nil {
		return goerr.Wrap(err, "failed to save profile", goerr.V(UserIDKey, profile.ID))
	}
	return nil
}
