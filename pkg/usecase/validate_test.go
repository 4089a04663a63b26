package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/taxonomy"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/usecase"
)

func issuesOf(result *usecase.ValidationResult, kind string) []types.ThemeID {
	var ids []types.ThemeID
	for _, issue := range result.Issues {
		if issue.Kind == kind {
			ids = append(ids, issue.ThemeID)
		}
	}
	return ids
}

func TestValidateTaxonomy(t *testing.T) {
	t.Run("built-in taxonomy", func(t *testing.T) {
		uc := usecase.New(memory.New())
		gt.Bool(t, uc.ValidateTaxonomy().HasIssues()).False()
	})

	t.Run("theme in two categories", func(t *testing.T) {
		tax := taxonomy.New([]taxonomy.Category{
			{Name: "A", ThemeIDs: []types.ThemeID{"sc-disruption"}},
			{Name: "B", ThemeIDs: []types.ThemeID{"sc-disruption"}},
		})
		uc := usecase.New(memory.New(), usecase.WithTaxonomy(tax))

		result := uc.ValidateTaxonomy()
		gt.Bool(t, result.HasIssues()).True()
		gt.Value(t, result.Issues[0].Kind).Equal(usecase.IssueTaxonomy)
	})
}

func TestValidateCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("reports unknown, unmapped and missing themes", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		gt.NoError(t, repo.Theme().Put(ctx, &model.Theme{ID: "esg-water", Name: "Water Scarcity"})).Required()
		gt.NoError(t, repo.Risk().PutMany(ctx, []*model.Risk{
			{ID: "ghost-1", AccessionNumber: "msft-2024", Title: "Ghost", ThemeID: "ghost-theme", Position: 3},
		})).Required()

		uc := usecase.New(repo)
		result, err := uc.ValidateCatalog(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.HasIssues()).True()

		unknown := issuesOf(result, usecase.IssueUnknownTheme)
		gt.Array(t, unknown).Length(1)
		gt.Value(t, unknown[0]).Equal(types.ThemeID("ghost-theme"))

		unmapped := issuesOf(result, usecase.IssueUnmapped)
		gt.Array(t, unmapped).Length(2)
		gt.Value(t, unmapped[0]).Equal(types.ThemeID("esg-water"))
		gt.Value(t, unmapped[1]).Equal(types.ThemeID("ghost-theme"))

		missing := issuesOf(result, usecase.IssueMissing)
		gt.Array(t, missing).Length(len(taxonomy.Default().ThemeIDs()) - 5)
	})

	t.Run("catalog covering a small taxonomy is clean", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		tax := taxonomy.New([]taxonomy.Category{
			{Name: "Supply Chain Risk", ThemeIDs: []types.ThemeID{"sc-disruption"}},
			{Name: "Cybersecurity Risk", ThemeIDs: []types.ThemeID{"cyber-breach"}},
			{Name: "Financial Risk", ThemeIDs: []types.ThemeID{"fin-currency"}},
			{Name: "Regulatory & Legal Risk", ThemeIDs: []types.ThemeID{"reg-tax"}},
			{Name: "Geopolitical Risk", ThemeIDs: []types.ThemeID{"geo-trade-policy"}},
		})
		uc := usecase.New(repo, usecase.WithTaxonomy(tax))

		result, err := uc.ValidateCatalog(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.HasIssues()).False()
	})
}
