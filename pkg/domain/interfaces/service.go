package interfaces

import (
	"context"

	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// CheckoutInput is what the billing provider needs to start a subscription checkout.
type CheckoutInput struct {
	UserID     types.UserID
	Email      string
	CustomerID string
	Plan       types.PlanID
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// BillingService is the subscription billing provider.
type BillingService interface {
	// CreateCustomer registers a customer and returns its id
	CreateCustomer(ctx context.Context, userID types.UserID, email string) (string, error)

	// CreateCheckoutSession returns the URL of a hosted checkout page
	CreateCheckoutSession(ctx context.Context, input *CheckoutInput) (string, error)

	// CreatePortalSession returns the URL of the hosted billing portal
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// LatestSubscription returns the customer's most recent subscription, or nil when there is none
	LatestSubscription(ctx context.Context, customerID string) (*model.Subscription, error)

	// ParseWebhook verifies the payload signature and decodes the event
	ParseWebhook(payload []byte, signature string) (*model.BillingEvent, error)
}

// AuthProvider is the external identity provider that issues access tokens.
type AuthProvider interface {
	// VerifyAccessToken validates an access token and decodes its session
	VerifyAccessToken(ctx context.Context, accessToken string) (*auth.Session, error)

	// ExchangeCode trades an authorization code for a session
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Session, error)

	// DeleteUser removes the user from the identity provider
	DeleteUser(ctx context.Context, userID types.UserID) error
}

// Notifier posts operational messages to humans.
type Notifier interface {
	Notify(ctx context.Context, title string, fields map[string]string) error
}
