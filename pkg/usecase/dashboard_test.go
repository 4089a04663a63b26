package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/usecase"
)

func limitedPlans(freeLimit int) *config.PlanConfig {
	return &config.PlanConfig{
		Plans: []config.Plan{
			{ID: types.PlanFree, Name: "Free", MaxWatches: freeLimit},
			{ID: types.PlanIndividual, Name: "Individual", PriceID: "price_ind"},
		},
	}
}

func TestDashboardUseCase_AddWatch(t *testing.T) {
	t.Run("adds watch and creates profile", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo, usecase.WithClock(fixedClock))
		ctx := context.Background()
		session := newSession("user-1")

		watch, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.NoError(t, err).Required()
		gt.Value(t, watch.CIK).Equal(cikApple)
		gt.Value(t, watch.Company.Name).Equal("Apple Inc.")
		gt.NoError(t, watch.ID.Validate())

		profile, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, profile.Plan).Equal(types.PlanFree)
		gt.Value(t, profile.Email).Equal("user-1@example.com")
	})

	t.Run("free plan limit is enforced", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo, usecase.WithPlanConfig(limitedPlans(2)))
		ctx := context.Background()
		session := newSession("user-1")

		_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.NoError(t, err).Required()
		_, err = uc.Dashboard.AddWatch(ctx, session, cikMicrosoft)
		gt.NoError(t, err).Required()

		_, err = uc.Dashboard.AddWatch(ctx, session, cikNvidia)
		gt.Error(t, err).Is(usecase.ErrPlanLimit)
	})

	t.Run("paid plan is not limited", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo, usecase.WithPlanConfig(limitedPlans(1)))
		ctx := context.Background()
		session := newSession("user-1")

		profile := model.NewProfile("user-1", "user-1@example.com", baseTime)
		profile.Plan = types.PlanIndividual
		gt.NoError(t, repo.Profile().Put(ctx, profile)).Required()

		for _, cik := range []types.CIK{cikApple, cikMicrosoft, cikNvidia} {
			_, err := uc.Dashboard.AddWatch(ctx, session, cik)
			gt.NoError(t, err).Required()
		}
	})

	t.Run("duplicate watch", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo)
		ctx := context.Background()
		session := newSession("user-1")

		_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.NoError(t, err).Required()
		_, err = uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.Error(t, err).Is(usecase.ErrAlreadyWatching)
	})

	t.Run("duplicate at the plan limit reports already watching", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo, usecase.WithPlanConfig(limitedPlans(1)))
		ctx := context.Background()
		session := newSession("user-1")

		_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.NoError(t, err).Required()
		_, err = uc.Dashboard.AddWatch(ctx, session, cikApple)
		gt.Error(t, err).Is(usecase.ErrAlreadyWatching)

		_, err = uc.Dashboard.AddWatch(ctx, session, cikMicrosoft)
		gt.Error(t, err).Is(usecase.ErrPlanLimit)
	})

	t.Run("unknown company", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo)

		_, err := uc.Dashboard.AddWatch(context.Background(), newSession("user-1"), "999")
		gt.Error(t, err).Is(usecase.ErrCompanyNotFound)
	})

	t.Run("invalid CIK", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Dashboard.AddWatch(context.Background(), newSession("user-1"), "AAPL")
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("requires session", func(t *testing.T) {
		repo := memory.New()
		seedCatalog(t, repo)
		uc := usecase.New(repo)
		_, err := uc.Dashboard.AddWatch(context.Background(), nil, cikApple)
		gt.Error(t, err).Is(usecase.ErrUnauthenticated)
	})
}

func TestDashboardUseCase_ListWatches(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	ctx := context.Background()

	tick := baseTime
	uc := usecase.New(repo, usecase.WithPlanConfig(limitedPlans(5)), usecase.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	session := newSession("user-1")

	_, err := uc.Dashboard.AddWatch(ctx, session, cikApple)
	gt.NoError(t, err).Required()
	_, err = uc.Dashboard.AddWatch(ctx, session, cikMicrosoft)
	gt.NoError(t, err).Required()
	_, err = uc.Dashboard.AddWatch(ctx, newSession("user-2"), cikNvidia)
	gt.NoError(t, err).Required()

	dashboard, err := uc.Dashboard.ListWatches(ctx, session)
	gt.NoError(t, err).Required()
	gt.Value(t, dashboard.Profile.ID).Equal(types.UserID("user-1"))
	gt.Number(t, dashboard.WatchLimit).Equal(5)
	gt.Array(t, dashboard.Watches).Length(2)
	gt.Value(t, dashboard.Watches[0].CIK).Equal(cikMicrosoft)
	gt.Value(t, dashboard.Watches[0].Company.Ticker).Equal("MSFT")
	gt.Value(t, dashboard.Watches[1].CIK).Equal(cikApple)

	empty, err := uc.Dashboard.ListWatches(ctx, newSession("user-3"))
	gt.NoError(t, err).Required()
	gt.Array(t, empty.Watches).Length(0)
}

func TestDashboardUseCase_RemoveWatch(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	uc := usecase.New(repo)
	ctx := context.Background()
	owner := newSession("user-1")

	watch, err := uc.Dashboard.AddWatch(ctx, owner, cikApple)
	gt.NoError(t, err).Required()

	t.Run("other user cannot remove", func(t *testing.T) {
		err := uc.Dashboard.RemoveWatch(ctx, newSession("user-2"), watch.ID)
		gt.Error(t, err).Is(usecase.ErrWatchNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		err := uc.Dashboard.RemoveWatch(ctx, owner, "not-a-uuid")
		gt.Error(t, err).Is(usecase.ErrWatchNotFound)
	})

	t.Run("owner removes", func(t *testing.T) {
		gt.NoError(t, uc.Dashboard.RemoveWatch(ctx, owner, watch.ID)).Required()
		err := uc.Dashboard.RemoveWatch(ctx, owner, watch.ID)
		gt.Error(t, err).Is(usecase.ErrWatchNotFound)
	})
}

func TestDashboardUseCase_CompanyDetail(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	uc := usecase.New(repo, usecase.WithPlanConfig(limitedPlans(10)))
	ctx := context.Background()
	session := newSession("user-1")

	addWatch := func(cik types.CIK) types.WatchID {
		w, err := uc.Dashboard.AddWatch(ctx, session, cik)
		gt.NoError(t, err).Required()
		return w.ID
	}
	appleWatch := addWatch(cikApple)
	msftWatch := addWatch(cikMicrosoft)
	nvdaWatch := addWatch(cikNvidia)

	t.Run("latest annual report drives gap analysis", func(t *testing.T) {
		detail, err := uc.Dashboard.CompanyDetail(ctx, session, appleWatch)
		gt.NoError(t, err).Required()

		gt.Value(t, detail.Company.Name).Equal("Apple Inc.")
		gt.Value(t, detail.SICCode).Equal("3571")
		gt.Array(t, detail.Filings).Length(2)
		gt.Value(t, detail.Filings[0].AccessionNumber).Equal(types.AccessionNumber("aapl-2024"))
		gt.Value(t, detail.Filings[1].AccessionNumber).Equal(types.AccessionNumber("aapl-2023"))

		latest := detail.Filings[0].Risks
		gt.Array(t, latest).Length(4)
		for i, r := range latest {
			gt.Number(t, r.Position).Equal(i + 1)
		}

		gap := detail.GapAnalysis
		gt.Number(t, gap.TotalIndustryThemes).Equal(3)
		gt.Number(t, gap.CompanyThemeCount).Equal(2)
		gt.Number(t, gap.CoveragePct).Equal(67)
		gt.Array(t, gap.Gaps).Length(1)
		gt.Value(t, gap.Gaps[0].ThemeID).Equal(types.ThemeID("reg-tax"))
		gt.Value(t, gap.Gaps[0].ThemeName).Equal("Tax Law Changes")
	})

	t.Run("industry without benchmark has zero coverage", func(t *testing.T) {
		detail, err := uc.Dashboard.CompanyDetail(ctx, session, msftWatch)
		gt.NoError(t, err).Required()
		gt.Array(t, detail.Filings).Length(1)
		gt.Number(t, detail.GapAnalysis.TotalIndustryThemes).Equal(0)
		gt.Number(t, detail.GapAnalysis.CoveragePct).Equal(0)
		gt.Array(t, detail.GapAnalysis.Gaps).Length(0)
	})

	t.Run("company without filings", func(t *testing.T) {
		detail, err := uc.Dashboard.CompanyDetail(ctx, session, nvdaWatch)
		gt.NoError(t, err).Required()
		gt.Array(t, detail.Filings).Length(0)
		gt.Number(t, detail.GapAnalysis.CoveragePct).Equal(0)
	})

	t.Run("watch of another user", func(t *testing.T) {
		_, err := uc.Dashboard.CompanyDetail(ctx, newSession("user-2"), appleWatch)
		gt.Error(t, err).Is(usecase.ErrWatchNotFound)
	})

	t.Run("unknown watch", func(t *testing.T) {
		_, err := uc.Dashboard.CompanyDetail(ctx, session, types.NewWatchID())
		gt.Error(t, err).Is(usecase.ErrWatchNotFound)
	})
}
