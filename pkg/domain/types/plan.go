package types

import "github.com/m-mizutani/goerr/v2"

// PlanID is a subscription plan.
type PlanID string

const (
	PlanFree         PlanID = "free"
	PlanIndividual   PlanID = "individual"
	PlanProfessional PlanID = "professional"
	PlanEnterprise   PlanID = "enterprise"
)

// AllPlans returns every plan in ascending order of price.
func AllPlans() []PlanID {
	return []PlanID{
		PlanFree,
		PlanIndividual,
		PlanProfessional,
		PlanEnterprise,
	}
}

func (p PlanID) IsValid() bool {
	switch p {
	case PlanFree, PlanIndividual, PlanProfessional, PlanEnterprise:
		return true
	default:
		return false
	}
}

// IsPaid reports whether the plan is one of the subscription plans.
func (p PlanID) IsPaid() bool {
	return p.IsValid() && p != PlanFree
}

// Normalize treats an empty plan as free.
func (p PlanID) Normalize() PlanID {
	if p == "" {
		return PlanFree
	}
	return p
}

func (p PlanID) Validate() error {
	if !p.IsValid() {
		return goerr.New("invalid plan", goerr.V("plan", p))
	}
	return nil
}

func (p PlanID) String() string {
	return string(p)
}
