package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/analysis"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/usecase"
)

func findRow(t *testing.T, cmp *usecase.Comparison, id types.ThemeID) analysis.MatrixTheme {
	t.Helper()
	for _, c := range cmp.Matrix {
		for _, row := range c.Themes {
			if row.ThemeID == id {
				return row
			}
		}
	}
	t.Fatalf("theme %s not in matrix", id)
	return analysis.MatrixTheme{}
}

func TestCompareUseCase_Matrix(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	uc := usecase.New(repo)
	ctx := context.Background()
	session := newSession("user-1")

	_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
	gt.NoError(t, err).Required()

	t.Run("latest annual reports are compared", func(t *testing.T) {
		cmp, err := uc.Compare.Matrix(ctx, session, []types.CIK{cikApple, cikMicrosoft})
		gt.NoError(t, err).Required()

		gt.Array(t, cmp.Watches).Length(1)
		gt.Value(t, cmp.SelectedCIKs).Equal([]types.CIK{cikApple, cikMicrosoft})
		gt.Value(t, cmp.ThemeMap["reg-tax"]).Equal("Tax Law Changes")

		apple := cmp.CompanyRisks[cikApple]
		gt.Value(t, apple.Company.Name).Equal("Apple Inc.")
		// the older report and the 10-Q are not used, untagged risks are skipped
		gt.Array(t, apple.Risks["sc-disruption"]).Length(1)
		gt.Value(t, apple.Risks["sc-disruption"][0].ID).Equal("a24-1")
		_, ok := apple.Risks["reg-tax"]
		gt.Bool(t, ok).False()
		_, ok = apple.Risks[""]
		gt.Bool(t, ok).False()

		supply := findRow(t, cmp, "sc-disruption")
		gt.Value(t, supply.Labels[cikApple]).Equal(analysis.LabelHigh)
		gt.Value(t, supply.Labels[cikMicrosoft]).Equal(analysis.LabelLow)
		gt.Bool(t, supply.HasDivergence).True()

		tax := findRow(t, cmp, "reg-tax")
		gt.Value(t, tax.Labels[cikMicrosoft]).Equal(analysis.LabelUnknown)
		gt.Bool(t, tax.HasDivergence).True()

		// categories follow taxonomy order
		var categories []string
		for _, c := range cmp.Matrix {
			categories = append(categories, c.Category)
		}
		gt.Value(t, categories).Equal([]string{
			"Financial Risk",
			"Supply Chain Risk",
			"Cybersecurity Risk",
			"Regulatory & Legal Risk",
		})
	})

	t.Run("no selection", func(t *testing.T) {
		cmp, err := uc.Compare.Matrix(ctx, session, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, cmp.Matrix).Length(0)
		gt.Array(t, cmp.SelectedCIKs).Length(0)
		gt.Array(t, cmp.Watches).Length(1)
	})

	t.Run("unknown company shows as not disclosing", func(t *testing.T) {
		cmp, err := uc.Compare.Matrix(ctx, session, []types.CIK{cikMicrosoft, "999"})
		gt.NoError(t, err).Required()
		_, ok := cmp.CompanyRisks["999"]
		gt.Bool(t, ok).False()

		row := findRow(t, cmp, "sc-disruption")
		gt.Bool(t, row.HasDivergence).True()
	})

	t.Run("company without filings", func(t *testing.T) {
		cmp, err := uc.Compare.Matrix(ctx, session, []types.CIK{cikNvidia})
		gt.NoError(t, err).Required()
		gt.Array(t, cmp.Matrix).Length(0)
		gt.Value(t, len(cmp.CompanyRisks[cikNvidia].Risks)).Equal(0)
	})

	t.Run("invalid CIK", func(t *testing.T) {
		_, err := uc.Compare.Matrix(ctx, session, []types.CIK{"apple"})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})
}

func TestCompareUseCase_PaidPlanGate(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	plans := limitedPlans(3)
	plans.CompareRequiresPaid = true
	uc := usecase.New(repo, usecase.WithPlanConfig(plans))
	ctx := context.Background()

	_, err := uc.Compare.Matrix(ctx, newSession("free-user"), []types.CIK{cikApple, cikMicrosoft})
	gt.Error(t, err).Is(usecase.ErrPaidPlanRequired)

	// the selector still loads without a selection
	_, err = uc.Compare.Matrix(ctx, newSession("free-user"), nil)
	gt.NoError(t, err)

	paid := model.NewProfile("paid-user", "paid@example.com", baseTime)
	paid.Plan = types.PlanIndividual
	gt.NoError(t, repo.Profile().Put(ctx, paid)).Required()

	_, err = uc.Compare.Matrix(ctx, newSession("paid-user"), []types.CIK{cikApple, cikMicrosoft})
	gt.NoError(t, err)
}

func TestCompareUseCase_UnmappedThemesAreDropped(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	ctx := context.Background()

	gt.NoError(t, repo.Theme().Put(ctx, &model.Theme{ID: "esg-water", Name: "Water Scarcity"})).Required()
	gt.NoError(t, repo.Risk().PutMany(ctx, []*model.Risk{
		{ID: "m24-9", AccessionNumber: "msft-2024", ThemeID: "esg-water", Severity: types.SeverityHigh, Position: 9},
	})).Required()

	uc := usecase.New(repo, usecase.WithPlanConfig(&config.PlanConfig{Plans: limitedPlans(3).Plans}))
	cmp, err := uc.Compare.Matrix(ctx, newSession("user-1"), []types.CIK{cikMicrosoft})
	gt.NoError(t, err).Required()

	for _, c := range cmp.Matrix {
		for _, row := range c.Themes {
			gt.Value(t, row.ThemeID).NotEqual(types.ThemeID("esg-water"))
		}
	}
	gt.Array(t, cmp.CompanyRisks[cikMicrosoft].Risks["esg-water"]).Length(1)
}
