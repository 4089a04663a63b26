package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	domainConfig "github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/service/billing"
)

// Stripe holds billing provider settings
type Stripe struct {
	secretKey         string
	webhookSecret     string
	individualPrice   string
	professionalPrice string
	enterprisePrice   string
}

func (x *Stripe) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stripe-secret-key",
			Usage:       "Stripe secret API key",
			Category:    "Billing",
			Sources:     cli.EnvVars("VANE_STRIPE_SECRET_KEY"),
			Destination: &x.secretKey,
		},
		&cli.StringFlag{
			Name:        "stripe-webhook-secret",
			Usage:       "Stripe webhook signing secret",
			Category:    "Billing",
			Sources:     cli.EnvVars("VANE_STRIPE_WEBHOOK_SECRET"),
			Destination: &x.webhookSecret,
		},
		&cli.StringFlag{
			Name:        "stripe-individual-price-id",
			Usage:       "Stripe price ID of the individual plan",
			Category:    "Billing",
			Sources:     cli.EnvVars("VANE_STRIPE_INDIVIDUAL_PRICE_ID"),
			Destination: &x.individualPrice,
		},
		&cli.StringFlag{
			Name:        "stripe-professional-price-id",
			Usage:       "Stripe price ID of the professional plan",
			Category:    "Billing",
			Sources:     cli.EnvVars("VANE_STRIPE_PROFESSIONAL_PRICE_ID"),
			Destination: &x.professionalPrice,
		},
		&cli.StringFlag{
			Name:        "stripe-enterprise-price-id",
			Usage:       "Stripe price ID of the enterprise plan",
			Category:    "Billing",
			Sources:     cli.EnvVars("VANE_STRIPE_ENTERPRISE_PRICE_ID"),
			Destination: &x.enterprisePrice,
		},
	}
}

func (x Stripe) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("secret-key.len", len(x.secretKey)),
		slog.Int("webhook-secret.len", len(x.webhookSecret)),
		slog.String("individual-price-id", x.individualPrice),
		slog.String("professional-price-id", x.professionalPrice),
		slog.String("enterprise-price-id", x.enterprisePrice),
	)
}

// IsConfigured returns true when billing is enabled
func (x *Stripe) IsConfigured() bool {
	return x.secretKey != ""
}

// ApplyPrices sets the price IDs given on the command line on the plans.
// Price IDs in the configuration file win.
func (x *Stripe) ApplyPrices(plans *domainConfig.PlanConfig) {
	prices := map[types.PlanID]string{
		types.PlanIndividual:   x.individualPrice,
		types.PlanProfessional: x.professionalPrice,
		types.PlanEnterprise:   x.enterprisePrice,
	}
	for i := range plans.Plans {
		p := &plans.Plans[i]
		if price := prices[p.ID]; p.PriceID == "" && price != "" {
			p.PriceID = price
		}
	}
}

// Configure returns the billing service, or nil when billing is disabled
func (x *Stripe) Configure() (interfaces.BillingService, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.webhookSecret == "" {
		return nil, goerr.Wrap(ErrMissingCredentials, "stripe-webhook-secret is required when billing is enabled")
	}

	svc, err := billing.New(x.secretKey, x.webhookSecret)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create billing service")
	}
	return svc, nil
}
