package model

import (
	"time"

	"github.com/vanerisk/vane/pkg/domain/types"
)

// Profile is the local account record of an authenticated user.
type Profile struct {
	ID                   types.UserID `json:"id"`
	Email                string       `json:"email"`
	Name                 string       `json:"name,omitempty"`
	Plan                 types.PlanID `json:"plan"`
	StripeCustomerID     string       `json:"-"`
	StripeSubscriptionID string       `json:"-"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// NewProfile returns a free profile for a newly seen user.
func NewProfile(id types.UserID, email string, now time.Time) *Profile {
	return &Profile{
		ID:        id,
		Email:     email,
		Plan:      types.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CurrentPlan returns the plan, treating an unset plan as free.
func (p *Profile) CurrentPlan() types.PlanID {
	if p == nil {
		return types.PlanFree
	}
	return p.Plan.Normalize()
}

// Watch is a company a user follows on the dashboard.
type Watch struct {
	ID        types.WatchID `json:"id"`
	UserID    types.UserID  `json:"user_id"`
	CIK       types.CIK     `json:"cik"`
	CreatedAt time.Time     `json:"created_at"`

	// Company is joined by loaders for display.
	Company *Company `json:"company,omitempty"`
}
