package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Plan describes a subscription plan offered on the pricing page.
type Plan struct {
	ID           types.PlanID `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	PriceID      string       `json:"-"`
	MonthlyPrice int          `json:"monthly_price"` // in cents
	MaxWatches   int          `json:"max_watches"`   // 0 means unlimited
	Features     []string     `json:"features,omitempty"`
}

// PlanConfig holds the plans and plan gating rules.
type PlanConfig struct {
	Plans               []Plan
	CompareRequiresPaid bool
}

// Plan returns the plan with the given id.
func (c *PlanConfig) Plan(id types.PlanID) (*Plan, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Plans {
		if c.Plans[i].ID == id {
			return &c.Plans[i], true
		}
	}
	return nil, false
}

// WatchLimit returns how many companies a user on plan may watch, and false
// when there is no limit.
func (c *PlanConfig) WatchLimit(id types.PlanID) (int, bool) {
	p, ok := c.Plan(id.Normalize())
	if !ok || p.MaxWatches <= 0 {
		return 0, false
	}
	return p.MaxWatches, true
}

// Validate checks plan ids, that every plan appears once, and that the free
// plan is offered.
func (c *PlanConfig) Validate() error {
	seen := make(map[types.PlanID]struct{}, len(c.Plans))
	for _, p := range c.Plans {
		if err := p.ID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid plan configuration")
		}
		if _, dup := seen[p.ID]; dup {
			return goerr.New("duplicate plan", goerr.V("plan", p.ID))
		}
		seen[p.ID] = struct{}{}
		if p.Name == "" {
			return goerr.New("plan name is required", goerr.V("plan", p.ID))
		}
		if p.MaxWatches < 0 {
			return goerr.New("max watches must not be negative", goerr.V("plan", p.ID))
		}
	}
	if _, ok := seen[types.PlanFree]; !ok {
		return goerr.New("free plan must be configured")
	}
	return nil
}

// DefaultPlanConfig is used when no application config file is given.
func DefaultPlanConfig() *PlanConfig {
	return &PlanConfig{
		Plans: []Plan{
			{
				ID:          types.PlanFree,
				Name:        "Free",
				Description: "Track a few companies",
				MaxWatches:  3,
				Features:    []string{"3 watched companies", "Latest 10-K risk factors"},
			},
			{
				ID:           types.PlanIndividual,
				Name:         "Individual",
				Description:  "For individual investors",
				MonthlyPrice: 1900,
				MaxWatches:   25,
				Features:     []string{"25 watched companies", "Industry gap analysis", "Theme explorer"},
			},
			{
				ID:           types.PlanProfessional,
				Name:         "Professional",
				Description:  "For analysts covering a sector",
				MonthlyPrice: 4900,
				Features:     []string{"Unlimited watched companies", "Cross-company comparison", "Filing history"},
			},
			{
				ID:          types.PlanEnterprise,
				Name:        "Enterprise",
				Description: "For teams. Contact sales",
				Features:    []string{"Everything in Professional", "Team seats"},
			},
		},
	}
}
