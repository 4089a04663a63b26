package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/utils/async"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

type BillingUseCase struct {
	repo     interfaces.Repository
	profiles *profileLoader
	plans    *config.PlanConfig
	billing  interfaces.BillingService
	notifier interfaces.Notifier
	baseURL  string
}

func NewBillingUseCase(repo interfaces.Repository, profiles *profileLoader, plans *config.PlanConfig, billing interfaces.BillingService, notifier interfaces.Notifier, baseURL string) *BillingUseCase {
	return &BillingUseCase{
		repo:     repo,
		profiles: profiles,
		plans:    plans,
		billing:  billing,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// CreateCheckout starts a subscription checkout for plan and returns the URL
// of the hosted checkout page. The provider customer is created on first use.
func (uc *BillingUseCase) CreateCheckout(ctx context.Context, session *auth.Session, plan types.PlanID) (string, error) {
	if uc.billing == nil {
		return "", goerr.Wrap(ErrBillingNotConfigured, "cannot create checkout")
	}
	if plan == "" {
		plan = types.PlanIndividual
	}
	if !plan.IsPaid() {
		return "", goerr.Wrap(ErrInvalidInput, "plan cannot be purchased", goerr.V("plan", plan))
	}
	p, ok := uc.plans.Plan(plan)
	if !ok || p.PriceID == "" {
		return "", goerr.Wrap(ErrPlanPriceNotAvailable, "cannot create checkout", goerr.V("plan", plan))
	}

	profile, err := uc.profiles.load(ctx, session)
	if err != nil {
		return "", err
	}

	email := profile.Email
	if email == "" {
		email = session.Email
	}

	if profile.StripeCustomerID == "" {
		customerID, err := uc.billing.CreateCustomer(ctx, profile.ID, email)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create billing customer", goerr.V(UserIDKey, profile.ID))
		}
		profile.StripeCustomerID = customerID
		if err := uc.profiles.save(ctx, profile); err != nil {
			return "", err
		}
	}

	url, err := uc.billing.CreateCheckoutSession(ctx, &interfaces.CheckoutInput{
		UserID:     profile.ID,
		Email:      email,
		CustomerID: profile.StripeCustomerID,
		Plan:       plan,
		PriceID:    p.PriceID,
		SuccessURL: uc.baseURL + "/risks?success=true",
		CancelURL:  uc.baseURL + "/pricing?canceled=true",
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create checkout session", goerr.V(UserIDKey, profile.ID))
	}
	return url, nil
}

// CreatePortal returns the URL of the billing portal for the user's customer
func (uc *BillingUseCase) CreatePortal(ctx context.Context, session *auth.Session) (string, error) {
	if uc.billing == nil {
		return "", goerr.Wrap(ErrBillingNotConfigured, "cannot create portal session")
	}

	profile, err := uc.profiles.load(ctx, session)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == "" {
		return "", goerr.Wrap(ErrNoSubscription, "cannot create portal session", goerr.V(UserIDKey, profile.ID))
	}

	url, err := uc.billing.CreatePortalSession(ctx, profile.StripeCustomerID, uc.baseURL+"/settings")
	if err != nil {
		return "", goerr.Wrap(err, "failed to create portal session", goerr.V(UserIDKey, profile.ID))
	}
	return url, nil
}

// HandleEvent applies a verified billing webhook event to the user's
// profile. Events that cannot be matched to a user are logged and dropped.
func (uc *BillingUseCase) HandleEvent(ctx context.Context, event *model.BillingEvent) error {
	logger := logging.From(ctx).With(
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
	)
	ctx = logging.With(ctx, logger)

	switch event.Type {
	case model.BillingCheckoutCompleted:
		return uc.checkoutCompleted(ctx, event)
	case model.BillingSubscriptionUpdated:
		return uc.subscriptionUpdated(ctx, event)
	case model.BillingSubscriptionDeleted:
		return uc.subscriptionDeleted(ctx, event)
	case model.BillingInvoicePaymentFailed:
		uc.paymentFailed(ctx, event)
		return nil
	default:
		logger.Info("Unhandled event type")
		return nil
	}
}

func (uc *BillingUseCase) checkoutCompleted(ctx context.Context, event *model.BillingEvent) error {
	logger := logging.From(ctx)
	if event.UserID == "" {
		logger.Warn("checkout completed without user id")
		return nil
	}

	profile, err := uc.repo.Profile().Get(ctx, event.UserID)
	if errors.Is(err, interfaces.ErrNotFound) {
		logger.Warn("checkout completed for unknown user", slog.String("user_id", event.UserID.String()))
		return nil
	}
	if err != nil {
		return goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, event.UserID))
	}

	plan := event.Plan
	if !plan.IsPaid() {
		plan = types.PlanIndividual
	}

	profile.Plan = plan
	if event.CustomerID != "" {
		profile.StripeCustomerID = event.CustomerID
	}
	profile.StripeSubscriptionID = event.SubscriptionID
	if err := uc.profiles.save(ctx, profile); err != nil {
		return err
	}

	logger.Info("subscription started",
		slog.String("user_id", profile.ID.String()),
		slog.String("plan", plan.String()))
	return nil
}

func (uc *BillingUseCase) profileByCustomer(ctx context.Context, customerID string) (*model.Profile, error) {
	if customerID == "" {
		logging.From(ctx).Warn("billing event without customer id")
		return nil, nil
	}
	profile, err := uc.repo.Profile().GetByCustomerID(ctx, customerID)
	if errors.Is(err, interfaces.ErrNotFound) {
		logging.From(ctx).Warn("billing event for unknown customer", slog.String("customer_id", customerID))
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get profile by customer", goerr.V("customer_id", customerID))
	}
	return profile, nil
}

func (uc *BillingUseCase) subscriptionUpdated(ctx context.Context, event *model.BillingEvent) error {
	profile, err := uc.profileByCustomer(ctx, event.CustomerID)
	if err != nil || profile == nil {
		return err
	}

	current := profile.CurrentPlan()
	next := current
	switch {
	case event.SubscriptionStatus.Entitled():
		switch {
		case event.Plan.IsPaid():
			next = event.Plan
		case !current.IsPaid():
			next = types.PlanIndividual
		}
	case event.SubscriptionStatus.Revoked():
		next = types.PlanFree
	}

	subscriptionChanged := event.SubscriptionStatus.Entitled() && event.SubscriptionID != "" &&
		event.SubscriptionID != profile.StripeSubscriptionID
	if next == current && !subscriptionChanged {
		return nil
	}

	profile.Plan = next
	if subscriptionChanged {
		profile.StripeSubscriptionID = event.SubscriptionID
	}
	if err := uc.profiles.save(ctx, profile); err != nil {
		return err
	}

	logging.From(ctx).Info("plan changed",
		slog.String("user_id", profile.ID.String()),
		slog.String("from", current.String()),
		slog.String("to", next.String()),
		slog.String("status", string(event.SubscriptionStatus)))
	return nil
}

func (uc *BillingUseCase) subscriptionDeleted(ctx context.Context, event *model.BillingEvent) error {
	profile, err := uc.profileByCustomer(ctx, event.CustomerID)
	if err != nil || profile == nil {
		return err
	}

	profile.Plan = types.PlanFree
	profile.StripeSubscriptionID = ""
	if err := uc.profiles.save(ctx, profile); err != nil {
		return err
	}

	logging.From(ctx).Info("subscription ended", slog.String("user_id", profile.ID.String()))
	return nil
}

func (uc *BillingUseCase) paymentFailed(ctx context.Context, event *model.BillingEvent) {
	logging.From(ctx).Warn("invoice payment failed",
		slog.String("customer_id", event.CustomerID),
		slog.String("invoice_id", event.InvoiceID))

	if uc.notifier == nil {
		return
	}

	fields := map[string]string{
		"customer": event.CustomerID,
		"invoice":  event.InvoiceID,
	}
	if event.SubscriptionID != "" {
		fields["subscription"] = event.SubscriptionID
	}
	async.Dispatch(ctx, "notify_payment_failed", func(ctx context.Context) error {
		return uc.notifier.Notify(ctx, "Invoice payment failed", fields)
	})
}
