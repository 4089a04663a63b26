package taxonomy

import "github.com/vanerisk/vane/pkg/domain/types"

var defaultTaxonomy = mustDefault()

// Default returns the built-in taxonomy. It is shared and read-only.
func Default() *Taxonomy {
	return defaultTaxonomy
}

func mustDefault() *Taxonomy {
	t := New(defaultCategories())
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

func defaultCategories() []Category {
	return []Category{
		{
			Name: "Operational Risk",
			ThemeIDs: []types.ThemeID{
				"op-key-personnel", "op-business-continuity", "op-quality-control",
				"op-capacity-constraints", "geo-concentration", "sales-complexity",
				"clinical-dev-risk",
			},
		},
		{
			Name: "Financial Risk",
			ThemeIDs: []types.ThemeID{
				"fin-liquidity", "fin-debt-leverage", "fin-currency", "fin-interest-rate",
				"fin-credit-access", "asset-impairment", "rev-rec-timing",
				"shareholder-dilution", "asset-valuation-risk", "counterparty-risk",
			},
		},
		{
			Name: "Market Risk",
			ThemeIDs: []types.ThemeID{
				"mkt-demand-decline", "mkt-pricing-pressure", "mkt-concentration-customer",
				"mkt-economic-downturn", "equity-market-volatility",
			},
		},
		{
			Name: "Supply Chain Risk",
			ThemeIDs: []types.ThemeID{
				"mkt-concentration-supplier", "sc-disruption", "sc-cost-inflation", "sc-logistics",
			},
		},
		{
			Name: "Strategic Risk",
			ThemeIDs: []types.ThemeID{
				"str-acquisition-integration", "str-international-expansion",
				"str-brand-reputation", "product-concentration", "divestiture-risk",
				"corporate-restructuring",
			},
		},
		{
			Name: "Competitive Landscape",
			ThemeIDs: []types.ThemeID{
				"comp-new-entrants", "comp-technology-disruption", "comp-market-share-loss",
			},
		},
		{
			Name:     "Cybersecurity Risk",
			ThemeIDs: []types.ThemeID{"cyber-breach", "cyber-privacy"},
		},
		{
			Name: "Technological Risk",
			ThemeIDs: []types.ThemeID{
				"cyber-system-failure", "comp-ai-disruption", "platform-dependency",
				"digital-asset-volatility",
			},
		},
		{
			Name: "Regulatory & Legal Risk",
			ThemeIDs: []types.ThemeID{
				"reg-compliance-burden", "reg-policy-change", "reg-litigation",
				"reg-environmental", "reg-tax", "ip-protection",
			},
		},
		{
			Name: "Geopolitical Risk",
			ThemeIDs: []types.ThemeID{
				"geo-trade-policy", "geo-political-instability", "geo-sanctions",
			},
		},
	}
}
