package repository_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

func runCatalogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Company Put and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		company := &model.Company{CIK: types.CIK(uniq()), Name: "Acme Corp", Ticker: "ACME", SICCode: 3571}
		gt.NoError(t, repo.Company().Put(ctx, company)).Required()

		got, err := repo.Company().Get(ctx, company.CIK)
		gt.NoError(t, err).Required()
		gt.Value(t, got).Equal(company)

		_, err = repo.Company().Get(ctx, types.CIK(uniq()))
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Company GetMany skips missing and keeps order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := &model.Company{CIK: types.CIK(uniq()), Name: "A"}
		b := &model.Company{CIK: types.CIK(uniq()), Name: "B"}
		gt.NoError(t, repo.Company().Put(ctx, a)).Required()
		gt.NoError(t, repo.Company().Put(ctx, b)).Required()

		got, err := repo.Company().GetMany(ctx, []types.CIK{b.CIK, types.CIK(uniq()), a.CIK})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2)
		gt.Value(t, got[0].CIK).Equal(b.CIK)
		gt.Value(t, got[1].CIK).Equal(a.CIK)
	})

	t.Run("Filing ListByCompany returns newest of a form type", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cik := types.CIK(uniq())
		gt.NoError(t, repo.Company().Put(ctx, &model.Company{CIK: cik, Name: "Filer"})).Required()

		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			gt.NoError(t, repo.Filing().Put(ctx, &model.Filing{
				AccessionNumber: types.AccessionNumber(uniq()),
				CIK:             cik,
				FilingDate:      base.AddDate(-i, 0, 0),
				FormType:        model.FormType10K,
				FiscalPeriod:    "FY",
			})).Required()
		}
		gt.NoError(t, repo.Filing().Put(ctx, &model.Filing{
			AccessionNumber: types.AccessionNumber(uniq()),
			CIK:             cik,
			FilingDate:      base.AddDate(0, 1, 0),
			FormType:        "10-Q",
		})).Required()

		got, err := repo.Filing().ListByCompany(ctx, cik, model.FormType10K, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(5)
		gt.Bool(t, got[0].FilingDate.Equal(base)).True()
		for i := 1; i < len(got); i++ {
			gt.Bool(t, got[i-1].FilingDate.After(got[i].FilingDate)).True()
			gt.Value(t, got[i].FormType).Equal(model.FormType10K)
		}

		all, err := repo.Filing().ListByCompany(ctx, cik, model.FormType10K, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(7)
	})

	t.Run("Risk ListByFilings orders by position", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cik := types.CIK(uniq())
		acc := types.AccessionNumber(uniq())
		gt.NoError(t, repo.Company().Put(ctx, &model.Company{CIK: cik, Name: "Filer"})).Required()
		gt.NoError(t, repo.Filing().Put(ctx, &model.Filing{
			AccessionNumber: acc, CIK: cik, FormType: model.FormType10K,
			FilingDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})).Required()

		risks := []*model.Risk{
			{ID: uniq(), AccessionNumber: acc, Title: "third", Position: 3, Severity: types.SeverityLow},
			{ID: uniq(), AccessionNumber: acc, Title: "first", Position: 1, Severity: types.SeverityHigh, ThemeID: "cyber-breach"},
			{ID: uniq(), AccessionNumber: acc, Title: "second", Position: 2},
		}
		gt.NoError(t, repo.Risk().PutMany(ctx, risks)).Required()

		got, err := repo.Risk().ListByFilings(ctx, []types.AccessionNumber{acc})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3)
		gt.Value(t, got[0].Title).Equal("first")
		gt.Value(t, got[0].Severity).Equal(types.SeverityHigh)
		gt.Value(t, got[0].ThemeID).Equal(types.ThemeID("cyber-breach"))
		gt.Value(t, got[1].Title).Equal("second")
		gt.Value(t, got[1].Severity).Equal(types.SeverityNone)
		gt.Value(t, got[2].Title).Equal("third")
	})

	t.Run("Risk ListByTheme returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cik := types.CIK(uniq())
		acc := types.AccessionNumber(uniq())
		theme := types.ThemeID("theme-" + uniq())
		gt.NoError(t, repo.Company().Put(ctx, &model.Company{CIK: cik, Name: "Filer"})).Required()
		gt.NoError(t, repo.Filing().Put(ctx, &model.Filing{
			AccessionNumber: acc, CIK: cik, FormType: model.FormType10K,
			FilingDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})).Required()

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		var risks []*model.Risk
		for i := 0; i < 4; i++ {
			risks = append(risks, &model.Risk{
				ID: uniq(), AccessionNumber: acc, Title: "r", Position: i,
				ThemeID: theme, CreatedAt: base.Add(time.Duration(i) * time.Hour),
			})
		}
		gt.NoError(t, repo.Risk().PutMany(ctx, risks)).Required()

		got, err := repo.Risk().ListByTheme(ctx, theme, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3)
		gt.Value(t, got[0].ID).Equal(risks[3].ID)
		gt.Value(t, got[2].ID).Equal(risks[1].ID)

		ids, err := repo.Risk().ListThemeIDs(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, slices.Contains(ids, theme)).True()
	})

	t.Run("Theme and benchmark", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		theme := &model.Theme{ID: types.ThemeID("theme-" + uniq()), Name: "Data breach"}
		gt.NoError(t, repo.Theme().Put(ctx, theme)).Required()

		got, err := repo.Theme().Get(ctx, theme.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Data breach")

		_, err = repo.Theme().Get(ctx, "missing-theme-"+types.ThemeID(uniq()))
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		themes, err := repo.Theme().List(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, slices.ContainsFunc(themes, func(th *model.Theme) bool { return th.ID == theme.ID })).True()

		var sic types.SICCode
		for sic == 0 {
			sic = types.SICCode(time.Now().UnixNano() % 900_000)
		}
		gt.NoError(t, repo.Benchmark().Put(ctx, &model.IndustryBenchmark{SICCode: sic, ThemeID: "b-theme"})).Required()
		gt.NoError(t, repo.Benchmark().Put(ctx, &model.IndustryBenchmark{SICCode: sic, ThemeID: "a-theme"})).Required()
		gt.NoError(t, repo.Benchmark().Put(ctx, &model.IndustryBenchmark{SICCode: sic, ThemeID: "a-theme"})).Required()

		ids, err := repo.Benchmark().ListThemeIDs(ctx, sic)
		gt.NoError(t, err).Required()
		slices.Sort(ids)
		gt.Value(t, ids).Equal([]types.ThemeID{"a-theme", "b-theme"})
	})
}

func TestCatalogRepository(t *testing.T) {
	forEachBackend(t, runCatalogRepositoryTest)
}

