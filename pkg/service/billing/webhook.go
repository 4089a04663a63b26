package billing

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

var (
	// ErrMissingSignature is returned when the webhook request carries no signature header
	ErrMissingSignature = goerr.New("missing Stripe signature")
	// ErrInvalidSignature is returned when the webhook signature does not verify
	ErrInvalidSignature = goerr.New("invalid signature")
)

// ParseWebhook verifies the Stripe-Signature header and reduces the event to
// model.BillingEvent. Event types the application does not react to are
// returned with only ID and Type set.
func (c *stripeClient) ParseWebhook(payload []byte, signature string) (*model.BillingEvent, error) {
	if signature == "" {
		return nil, goerr.Wrap(ErrMissingSignature, "webhook rejected")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSignature, "webhook rejected", goerr.V("cause", err.Error()))
	}

	result := &model.BillingEvent{
		ID:   event.ID,
		Type: model.BillingEventType(event.Type),
	}
	if event.Data == nil {
		return result, nil
	}

	switch result.Type {
	case model.BillingCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, goerr.Wrap(err, "failed to decode checkout session", goerr.V("eventID", event.ID))
		}
		result.UserID = types.UserID(session.Metadata[MetadataUserID])
		result.Plan = types.PlanID(session.Metadata[MetadataPlan])
		if session.Customer != nil {
			result.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			result.SubscriptionID = session.Subscription.ID
		}

	case model.BillingSubscriptionUpdated, model.BillingSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, goerr.Wrap(err, "failed to decode subscription", goerr.V("eventID", event.ID))
		}
		result.SubscriptionID = sub.ID
		result.SubscriptionStatus = model.SubscriptionStatus(sub.Status)
		result.UserID = types.UserID(sub.Metadata[MetadataUserID])
		result.Plan = types.PlanID(sub.Metadata[MetadataPlan])
		if sub.Customer != nil {
			result.CustomerID = sub.Customer.ID
		}

	case model.BillingInvoicePaymentFailed:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, goerr.Wrap(err, "failed to decode invoice", goerr.V("eventID", event.ID))
		}
		result.InvoiceID = invoice.ID
		if invoice.Customer != nil {
			result.CustomerID = invoice.Customer.ID
		}
		if invoice.Subscription != nil {
			result.SubscriptionID = invoice.Subscription.ID
		}
	}

	return result, nil
}
