package usecase

import (
	"time"

	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/taxonomy"
)

type UseCases struct {
	repo         interfaces.Repository
	plans        *config.PlanConfig
	taxonomy     *taxonomy.Taxonomy
	billing      interfaces.BillingService
	authProvider interfaces.AuthProvider
	notifier     interfaces.Notifier
	baseURL      string
	now          func() time.Time

	Dashboard *DashboardUseCase
	Theme     *ThemeUseCase
	Compare   *CompareUseCase
	Billing   *BillingUseCase
	Settings  *SettingsUseCase
	Pricing   *PricingUseCase
	Auth      AuthUseCaseInterface
}

type Option func(*UseCases)

func WithPlanConfig(cfg *config.PlanConfig) Option {
	return func(uc *UseCases) {
		uc.plans = cfg
	}
}

func WithTaxonomy(tax *taxonomy.Taxonomy) Option {
	return func(uc *UseCases) {
		uc.taxonomy = tax
	}
}

func WithBilling(svc interfaces.BillingService) Option {
	return func(uc *UseCases) {
		uc.billing = svc
	}
}

// WithAuthProvider sets the identity provider used for account deletion
func WithAuthProvider(provider interfaces.AuthProvider) Option {
	return func(uc *UseCases) {
		uc.authProvider = provider
	}
}

func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithBaseURL sets the public URL used to build billing redirect URLs
func WithBaseURL(url string) Option {
	return func(uc *UseCases) {
		uc.baseURL = url
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		plans:    config.DefaultPlanConfig(),
		taxonomy: taxonomy.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	profiles := newProfileLoader(repo, uc.now)
	uc.Dashboard = NewDashboardUseCase(repo, profiles, uc.plans)
	uc.Theme = NewThemeUseCase(repo)
	uc.Compare = NewCompareUseCase(repo, profiles, uc.plans, uc.taxonomy)
	uc.Billing = NewBillingUseCase(repo, profiles, uc.plans, uc.billing, uc.notifier, uc.baseURL)
	uc.Settings = NewSettingsUseCase(repo, profiles, uc.billing, uc.authProvider)
	uc.Pricing = NewPricingUseCase(profiles, uc.plans)

	return uc
}
