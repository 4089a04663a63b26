package model

import (
	"time"

	"github.com/vanerisk/vane/pkg/domain/types"
)

// SubscriptionStatus mirrors the billing provider's subscription status.
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
)

// Entitled reports whether the status grants the paid plan.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// Revoked reports whether the status ends paid access.
func (s SubscriptionStatus) Revoked() bool {
	return s == SubscriptionCanceled || s == SubscriptionUnpaid
}

// Subscription summarizes a user's subscription at the billing provider.
type Subscription struct {
	ID                string             `json:"id"`
	Status            SubscriptionStatus `json:"status"`
	Plan              types.PlanID       `json:"plan,omitempty"`
	CurrentPeriodEnd  time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
}

// BillingEventType is a billing webhook event type the application reacts to.
type BillingEventType string

const (
	BillingCheckoutCompleted    BillingEventType = "checkout.session.completed"
	BillingSubscriptionUpdated  BillingEventType = "customer.subscription.updated"
	BillingSubscriptionDeleted  BillingEventType = "customer.subscription.deleted"
	BillingInvoicePaymentFailed BillingEventType = "invoice.payment_failed"
)

// BillingEvent is a verified webhook event reduced to the fields the
// application needs.
type BillingEvent struct {
	ID                 string
	Type               BillingEventType
	UserID             types.UserID
	Plan               types.PlanID
	CustomerID         string
	SubscriptionID     string
	SubscriptionStatus SubscriptionStatus
	InvoiceID          string
}
