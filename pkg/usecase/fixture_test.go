package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/repository/memory"
)

const (
	cikApple     types.CIK = "320193"
	cikMicrosoft types.CIK = "789019"
	cikNvidia    types.CIK = "1045810"

	sicComputers types.SICCode = 3571
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return baseTime
}

func newSession(userID types.UserID) *auth.Session {
	return &auth.Session{
		UserID:      userID,
		Email:       userID.String() + "@example.com",
		AccessToken: "token-" + userID.String(),
	}
}

// seedCatalog stores three companies with two annual reports for Apple and
// one for Microsoft, plus a benchmark for Apple's industry.
func seedCatalog(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	themes := []*model.Theme{
		{ID: "sc-disruption", Name: "Supply Chain Disruption"},
		{ID: "cyber-breach", Name: "Data Breach"},
		{ID: "reg-tax", Name: "Tax Law Changes"},
		{ID: "fin-currency", Name: "Currency Risk"},
		{ID: "geo-trade-policy", Name: "Trade Policy"},
	}
	for _, th := range themes {
		gt.NoError(t, repo.Theme().Put(ctx, th)).Required()
	}

	companies := []*model.Company{
		{CIK: cikApple, Name: "Apple Inc.", Ticker: "AAPL", SICCode: sicComputers},
		{CIK: cikMicrosoft, Name: "Microsoft Corp", Ticker: "MSFT", SICCode: 7372},
		{CIK: cikNvidia, Name: "NVIDIA Corp", Ticker: "NVDA", SICCode: 3674},
	}
	for _, c := range companies {
		gt.NoError(t, repo.Company().Put(ctx, c)).Required()
	}

	filings := []*model.Filing{
		{AccessionNumber: "aapl-2023", CIK: cikApple, FilingDate: time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC), FormType: model.FormType10K, FiscalPeriod: "FY2023"},
		{AccessionNumber: "aapl-2024", CIK: cikApple, FilingDate: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), FormType: model.FormType10K, FiscalPeriod: "FY2024"},
		{AccessionNumber: "aapl-2024-q", CIK: cikApple, FilingDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), FormType: "10-Q", FiscalPeriod: "Q1"},
		{AccessionNumber: "msft-2024", CIK: cikMicrosoft, FilingDate: time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC), FormType: model.FormType10K, FiscalPeriod: "FY2024"},
	}
	for _, f := range filings {
		gt.NoError(t, repo.Filing().Put(ctx, f)).Required()
	}

	risks := []*model.Risk{
		{ID: "a23-1", AccessionNumber: "aapl-2023", Title: "Old supply", ThemeID: "sc-disruption", Severity: types.SeverityLow, Position: 1, CreatedAt: baseTime.Add(-48 * time.Hour)},
		{ID: "a24-3", AccessionNumber: "aapl-2024", Title: "Currency", ThemeID: "fin-currency", Severity: types.SeverityMedium, Position: 3, CreatedAt: baseTime.Add(-3 * time.Hour)},
		{ID: "a24-1", AccessionNumber: "aapl-2024", Title: "Supply", ThemeID: "sc-disruption", Severity: types.SeverityHigh, Position: 1, CreatedAt: baseTime.Add(-1 * time.Hour)},
		{ID: "a24-2", AccessionNumber: "aapl-2024", Title: "Breach", ThemeID: "cyber-breach", Severity: types.SeverityHigh, Position: 2, CreatedAt: baseTime.Add(-2 * time.Hour)},
		{ID: "a24-4", AccessionNumber: "aapl-2024", Title: "Untagged", Position: 4, CreatedAt: baseTime.Add(-4 * time.Hour)},
		{ID: "aq-1", AccessionNumber: "aapl-2024-q", Title: "Quarterly", ThemeID: "reg-tax", Severity: types.SeverityLow, Position: 1, CreatedAt: baseTime},
		{ID: "m24-1", AccessionNumber: "msft-2024", Title: "Supply", ThemeID: "sc-disruption", Severity: types.SeverityLow, Position: 1, CreatedAt: baseTime.Add(-5 * time.Hour)},
		{ID: "m24-2", AccessionNumber: "msft-2024", Title: "Tax", ThemeID: "reg-tax", Position: 2, CreatedAt: baseTime.Add(-6 * time.Hour)},
	}
	gt.NoError(t, repo.Risk().PutMany(ctx, risks)).Required()

	for _, id := range []types.ThemeID{"sc-disruption", "cyber-breach", "reg-tax"} {
		gt.NoError(t, repo.Benchmark().Put(ctx, &model.IndustryBenchmark{SICCode: sicComputers, ThemeID: id})).Required()
	}
}
