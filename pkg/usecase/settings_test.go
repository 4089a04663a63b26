package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/usecase"
)

func TestSettingsUseCase_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("user without customer has no subscription", func(t *testing.T) {
		billing := &mockBillingService{
			latestSubscriptionFn: func(ctx context.Context, customerID string) (*model.Subscription, error) {
				t.Fatal("subscription must not be fetched")
				return nil, nil
			},
		}
		uc := usecase.New(memory.New(), usecase.WithBilling(billing), usecase.WithClock(fixedClock))

		settings, err := uc.Settings.Load(ctx, newSession("user-1"))
		gt.NoError(t, err).Required()
		gt.Value(t, settings.Profile.ID).Equal(types.UserID("user-1"))
		gt.Value(t, settings.Profile.Plan).Equal(types.PlanFree)
		gt.Value(t, settings.Subscription).Nil()
	})

	t.Run("customer gets latest subscription", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanIndividual, "cus_1", "sub_1")
		periodEnd := baseTime.Add(30 * 24 * time.Hour)
		billing := &mockBillingService{
			latestSubscriptionFn: func(ctx context.Context, customerID string) (*model.Subscription, error) {
				gt.Value(t, customerID).Equal("cus_1")
				return &model.Subscription{
					ID:               "sub_1",
					Status:           model.SubscriptionActive,
					Plan:             types.PlanIndividual,
					CurrentPeriodEnd: periodEnd,
				}, nil
			},
		}
		uc := usecase.New(repo, usecase.WithBilling(billing), usecase.WithClock(fixedClock))

		settings, err := uc.Settings.Load(ctx, newSession("user-1"))
		gt.NoError(t, err).Required()
		gt.Value(t, settings.Subscription).NotNil()
		gt.Value(t, settings.Subscription.Status).Equal(model.SubscriptionActive)
		gt.Value(t, settings.Subscription.CurrentPeriodEnd).Equal(periodEnd)
	})

	t.Run("provider failure leaves subscription empty", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanIndividual, "cus_1", "sub_1")
		billing := &mockBillingService{
			latestSubscriptionFn: func(ctx context.Context, customerID string) (*model.Subscription, error) {
				return nil, errors.New("stripe down")
			},
		}
		uc := usecase.New(repo, usecase.WithBilling(billing), usecase.WithClock(fixedClock))

		settings, err := uc.Settings.Load(ctx, newSession("user-1"))
		gt.NoError(t, err).Required()
		gt.Value(t, settings.Profile.Plan).Equal(types.PlanIndividual)
		gt.Value(t, settings.Subscription).Nil()
	})

	t.Run("no session", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Settings.Load(ctx, nil)
		gt.Error(t, err).Is(usecase.ErrUnauthenticated)
	})
}

func TestSettingsUseCase_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("removes auth user, watches and profile", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		provider := &mockAuthProvider{}
		uc := usecase.New(repo, usecase.WithAuthProvider(provider), usecase.WithClock(fixedClock))
		session := newSession("user-1")

		_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.NoError(t, err).Required()
		_, err = uc.Dashboard.AddWatch(ctx, newSession("user-2"), cikApple)
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Settings.DeleteAccount(ctx, session)).Required()

		gt.Array(t, provider.deleted).Length(1)
		gt.Value(t, provider.deleted[0]).Equal(types.UserID("user-1"))

		_, err = repo.Profile().Get(ctx, "user-1")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		watches, err := repo.Watch().List(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Array(t, watches).Length(0)

		others, err := repo.Watch().List(ctx, "user-2")
		gt.NoError(t, err).Required()
		gt.Array(t, others).Length(1)
	})

	t.Run("provider failure keeps local data", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanFree, "", "")
		provider := &mockAuthProvider{
			deleteFn: func(ctx context.Context, userID types.UserID) error {
				return errors.New("admin api unavailable")
			},
		}
		uc := usecase.New(repo, usecase.WithAuthProvider(provider))

		gt.Value(t, uc.Settings.DeleteAccount(ctx, newSession("user-1"))).NotNil()
		_, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err)
	})

	t.Run("provider not configured", func(t *testing.T) {
		uc := usecase.New(memory.New())
		gt.Value(t, uc.Settings.DeleteAccount(ctx, newSession("user-1"))).NotNil()
	})

	t.Run("no session", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithAuthProvider(&mockAuthProvider{}))
		gt.Error(t, uc.Settings.DeleteAccount(ctx, nil)).Is(usecase.ErrUnauthenticated)
	})
}
