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
	"github.com/vanerisk/vane/pkg/utils/async"
)

func newBillingUseCases(repo *memory.Memory, billing *mockBillingService, notifier *mockNotifier) *usecase.UseCases {
	opts := []usecase.Option{
		usecase.WithPlanConfig(limitedPlans(3)),
		usecase.WithBilling(billing),
		usecase.WithBaseURL("https://vane.example/"),
		usecase.WithClock(fixedClock),
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}
	return usecase.New(repo, opts...)
}

func putProfile(t *testing.T, repo *memory.Memory, id types.UserID, plan types.PlanID, customerID, subscriptionID string) {
	t.Helper()
	p := model.NewProfile(id, id.String()+"@example.com", baseTime.Add(-time.Hour))
	p.Plan = plan
	p.StripeCustomerID = customerID
	p.StripeSubscriptionID = subscriptionID
	gt.NoError(t, repo.Profile().Put(context.Background(), p)).Required()
}

func TestBillingUseCase_CreateCheckout(t *testing.T) {
	t.Run("creates customer once and builds redirect URLs", func(t *testing.T) {
		repo := memory.New()
		billing := &mockBillingService{}
		uc := newBillingUseCases(repo, billing, nil)
		ctx := context.Background()
		session := newSession("user-1")

		url, err := uc.Billing.CreateCheckout(ctx, session, "")
		gt.NoError(t, err).Required()
		gt.Value(t, url).Equal("https://checkout.example/cus_user-1")

		gt.Array(t, billing.checkoutInputs).Length(1)
		input := billing.checkoutInputs[0]
		gt.Value(t, input.Plan).Equal(types.PlanIndividual)
		gt.Value(t, input.PriceID).Equal("price_ind")
		gt.Value(t, input.SuccessURL).Equal("https://vane.example/risks?success=true")
		gt.Value(t, input.CancelURL).Equal("https://vane.example/pricing?canceled=true")

		profile, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, profile.StripeCustomerID).Equal("cus_user-1")

		_, err = uc.Billing.CreateCheckout(ctx, session, types.PlanIndividual)
		gt.NoError(t, err).Required()
		gt.Array(t, billing.createdCustomers).Length(1)
	})

	t.Run("free plan cannot be purchased", func(t *testing.T) {
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, nil)
		_, err := uc.Billing.CreateCheckout(context.Background(), newSession("user-1"), types.PlanFree)
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("plan without price", func(t *testing.T) {
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, nil)
		_, err := uc.Billing.CreateCheckout(context.Background(), newSession("user-1"), types.PlanEnterprise)
		gt.Error(t, err).Is(usecase.ErrPlanPriceNotAvailable)
	})

	t.Run("billing not configured", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Billing.CreateCheckout(context.Background(), newSession("user-1"), types.PlanIndividual)
		gt.Error(t, err).Is(usecase.ErrBillingNotConfigured)
	})

	t.Run("provider failure", func(t *testing.T) {
		billing := &mockBillingService{
			createCheckoutSessionFn: func(ctx context.Context, input *interfaces.CheckoutInput) (string, error) {
				return "", errors.New("stripe down")
			},
		}
		uc := newBillingUseCases(memory.New(), billing, nil)
		_, err := uc.Billing.CreateCheckout(context.Background(), newSession("user-1"), types.PlanIndividual)
		gt.Value(t, err).NotNil()
	})
}

func TestBillingUseCase_CreatePortal(t *testing.T) {
	repo := memory.New()
	var returnURL string
	billing := &mockBillingService{
		createPortalSessionFn: func(ctx context.Context, customerID, url string) (string, error) {
			returnURL = url
			return "https://portal.example/" + customerID, nil
		},
	}
	uc := newBillingUseCases(repo, billing, nil)
	ctx := context.Background()

	_, err := uc.Billing.CreatePortal(ctx, newSession("no-customer"))
	gt.Error(t, err).Is(usecase.ErrNoSubscription)

	putProfile(t, repo, "customer", types.PlanIndividual, "cus_9", "sub_9")
	url, err := uc.Billing.CreatePortal(ctx, newSession("customer"))
	gt.NoError(t, err).Required()
	gt.Value(t, url).Equal("https://portal.example/cus_9")
	gt.Value(t, returnURL).Equal("https://vane.example/settings")
}

func TestBillingUseCase_HandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("checkout completed sets plan, customer and subscription", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanFree, "", "")
		uc := newBillingUseCases(repo, &mockBillingService{}, nil)

		err := uc.Billing.HandleEvent(ctx, &model.BillingEvent{
			ID:             "evt_1",
			Type:           model.BillingCheckoutCompleted,
			UserID:         "user-1",
			Plan:           types.PlanProfessional,
			CustomerID:     "cus_1",
			SubscriptionID: "sub_1",
		})
		gt.NoError(t, err).Required()

		p, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, p.Plan).Equal(types.PlanProfessional)
		gt.Value(t, p.StripeCustomerID).Equal("cus_1")
		gt.Value(t, p.StripeSubscriptionID).Equal("sub_1")
		gt.Value(t, p.UpdatedAt).Equal(baseTime)
	})

	t.Run("checkout completed without plan defaults to individual", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanFree, "", "")
		uc := newBillingUseCases(repo, &mockBillingService{}, nil)

		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{
			Type: model.BillingCheckoutCompleted, UserID: "user-1", CustomerID: "cus_1",
		})).Required()

		p, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, p.Plan).Equal(types.PlanIndividual)
	})

	t.Run("checkout completed without user is ignored", func(t *testing.T) {
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, nil)
		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{Type: model.BillingCheckoutCompleted}))
		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{Type: model.BillingCheckoutCompleted, UserID: "ghost"}))
	})

	t.Run("subscription status changes", func(t *testing.T) {
		testCases := map[string]struct {
			initial  types.PlanID
			status   model.SubscriptionStatus
			plan     types.PlanID
			expected types.PlanID
			written  bool
		}{
			"active keeps paid plan":          {initial: types.PlanProfessional, status: model.SubscriptionActive, expected: types.PlanProfessional},
			"active with metadata plan":       {initial: types.PlanIndividual, status: model.SubscriptionActive, plan: types.PlanProfessional, expected: types.PlanProfessional, written: true},
			"trialing upgrades free user":     {initial: types.PlanFree, status: model.SubscriptionTrialing, expected: types.PlanIndividual, written: true},
			"canceled downgrades":             {initial: types.PlanIndividual, status: model.SubscriptionCanceled, expected: types.PlanFree, written: true},
			"unpaid downgrades":               {initial: types.PlanProfessional, status: model.SubscriptionUnpaid, expected: types.PlanFree, written: true},
			"canceled free user is unchanged": {initial: types.PlanFree, status: model.SubscriptionCanceled, expected: types.PlanFree},
			"past due is unchanged":           {initial: types.PlanIndividual, status: model.SubscriptionPastDue, expected: types.PlanIndividual},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				repo := memory.New()
				putProfile(t, repo, "user-1", tc.initial, "cus_1", "sub_1")
				uc := newBillingUseCases(repo, &mockBillingService{}, nil)

				err := uc.Billing.HandleEvent(ctx, &model.BillingEvent{
					Type:               model.BillingSubscriptionUpdated,
					CustomerID:         "cus_1",
					SubscriptionID:     "sub_1",
					SubscriptionStatus: tc.status,
					Plan:               tc.plan,
				})
				gt.NoError(t, err).Required()

				p, err := repo.Profile().Get(ctx, "user-1")
				gt.NoError(t, err).Required()
				gt.Value(t, p.Plan).Equal(tc.expected)
				gt.Value(t, p.UpdatedAt.Equal(baseTime)).Equal(tc.written)
			})
		}
	})

	t.Run("subscription update for unknown customer is ignored", func(t *testing.T) {
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, nil)
		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{
			Type:               model.BillingSubscriptionUpdated,
			CustomerID:         "cus_unknown",
			SubscriptionStatus: model.SubscriptionActive,
		}))
	})

	t.Run("subscription deleted returns to free", func(t *testing.T) {
		repo := memory.New()
		putProfile(t, repo, "user-1", types.PlanProfessional, "cus_1", "sub_1")
		uc := newBillingUseCases(repo, &mockBillingService{}, nil)

		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{
			Type:       model.BillingSubscriptionDeleted,
			CustomerID: "cus_1",
		})).Required()

		p, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, p.Plan).Equal(types.PlanFree)
		gt.Value(t, p.StripeSubscriptionID).Equal("")
		gt.Value(t, p.StripeCustomerID).Equal("cus_1")
	})

	t.Run("payment failure notifies", func(t *testing.T) {
		notifier := &mockNotifier{}
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, notifier)

		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{
			Type:       model.BillingInvoicePaymentFailed,
			CustomerID: "cus_1",
			InvoiceID:  "in_1",
		})).Required()

		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		gt.NoError(t, async.Wait(waitCtx)).Required()

		gt.Number(t, notifier.count()).Equal(1)
		gt.Value(t, notifier.fields[0]["invoice"]).Equal("in_1")
	})

	t.Run("unhandled event type is ignored", func(t *testing.T) {
		uc := newBillingUseCases(memory.New(), &mockBillingService{}, nil)
		gt.NoError(t, uc.Billing.HandleEvent(ctx, &model.BillingEvent{Type: "invoice.payment_succeeded"}))
	})
}
