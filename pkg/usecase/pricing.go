package usecase

import (
	"context"

	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type PricingUseCase struct {
	profiles *profileLoader
	plans    *config.PlanConfig
}

func NewPricingUseCase(profiles *profileLoader, plans *config.PlanConfig) *PricingUseCase {
	return &PricingUseCase{profiles: profiles, plans: plans}
}

// Pricing is the page data of the pricing page.
type Pricing struct {
	Plans       []config.Plan `json:"plans"`
	CurrentPlan types.PlanID  `json:"currentPlan,omitempty"`
}

// Load lists the configured plans. CurrentPlan is set only for signed-in
// users, and a user without a profile yet is on the free plan.
func (uc *PricingUseCase) Load(ctx context.Context, session *auth.Session) (*Pricing, error) {
	result := &Pricing{Plans: []config.Plan{}}
	if uc.plans != nil {
		result.Plans = append(result.Plans, uc.plans.Plans...)
	}

	if session == nil {
		return result, nil
	}
	profile, err := uc.profiles.find(ctx, session)
	if err != nil {
		return nil, err
	}
	result.CurrentPlan = profile.CurrentPlan()
	return result, nil
}
