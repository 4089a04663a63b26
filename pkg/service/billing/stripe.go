package billing

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

const (
	// MetadataUserID is the metadata key that links Stripe objects to an auth user
	MetadataUserID = "supabase_user_id"
	// MetadataPlan is the metadata key carrying the purchased plan
	MetadataPlan = "plan"
)

// stripeClient implements interfaces.BillingService on top of Stripe
type stripeClient struct {
	api           *client.API
	webhookSecret string
}

var _ interfaces.BillingService = (*stripeClient)(nil)

// Option is a functional option for the Stripe client
type Option func(*options)

type options struct {
	backendURL string
}

// WithBackendURL points API calls at another Stripe-compatible endpoint
func WithBackendURL(url string) Option {
	return func(o *options) {
		o.backendURL = url
	}
}

// New creates a Stripe billing service
func New(secretKey, webhookSecret string, opts ...Option) (interfaces.BillingService, error) {
	if secretKey == "" {
		return nil, goerr.New("Stripe secret key is required")
	}
	if webhookSecret == "" {
		return nil, goerr.New("Stripe webhook secret is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var backends *stripe.Backends
	if o.backendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(o.backendURL),
			MaxNetworkRetries: stripe.Int64(0),
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	return &stripeClient{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}, nil
}

func (c *stripeClient) CreateCustomer(ctx context.Context, userID types.UserID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, userID.String())

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create Stripe customer", goerr.V("userID", userID))
	}
	return customer.ID, nil
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, input *interfaces.CheckoutInput) (string, error) {
	if input == nil || input.PriceID == "" {
		return "", goerr.New("price id is required for checkout")
	}

	metadata := map[string]string{
		MetadataUserID: input.UserID.String(),
		MetadataPlan:   input.Plan.String(),
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(input.SuccessURL),
		CancelURL:  stripe.String(input.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if input.CustomerID != "" {
		params.Customer = stripe.String(input.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(input.Email)
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create checkout session",
			goerr.V("userID", input.UserID),
			goerr.V("plan", input.Plan))
	}
	if session.URL == "" {
		return "", goerr.New("checkout session has no URL", goerr.V("sessionID", session.ID))
	}
	return session.URL, nil
}

func (c *stripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create billing portal session", goerr.V("customerID", customerID))
	}
	return session.URL, nil
}

func (c *stripeClient) LatestSubscription(ctx context.Context, customerID string) (*model.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := c.api.Subscriptions.List(params)
	if iter.Next() {
		return toSubscription(iter.Subscription()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to list subscriptions", goerr.V("customerID", customerID))
	}
	return nil, nil
}

func toSubscription(s *stripe.Subscription) *model.Subscription {
	sub := &model.Subscription{
		ID:                s.ID,
		Status:            model.SubscriptionStatus(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.CurrentPeriodEnd > 0 {
		sub.CurrentPeriodEnd = time.Unix(s.CurrentPeriodEnd, 0).UTC()
	}
	if plan := types.PlanID(s.Metadata[MetadataPlan]); plan.IsValid() {
		sub.Plan = plan
	}
	return sub
}
