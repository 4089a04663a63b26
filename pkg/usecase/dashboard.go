package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/analysis"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// recentFilingLimit is how many annual reports the company page shows
const recentFilingLimit = 5

type DashboardUseCase struct {
	repo     interfaces.Repository
	profiles *profileLoader
	plans    *config.PlanConfig
}

func NewDashboardUseCase(repo interfaces.Repository, profiles *profileLoader, plans *config.PlanConfig) *DashboardUseCase {
	return &DashboardUseCase{
		repo:     repo,
		profiles: profiles,
		plans:    plans,
	}
}

// Dashboard is the page data of the watch list.
type Dashboard struct {
	Profile    *model.Profile `json:"profile"`
	Watches    []*model.Watch `json:"watches"`
	WatchLimit int            `json:"watchLimit"` // 0 means unlimited
}

// CompanyDetail is the page data of one watched company.
type CompanyDetail struct {
	Watch       *model.Watch          `json:"watch"`
	Company     *model.Company        `json:"company"`
	Filings     []*model.Filing       `json:"filings"`
	GapAnalysis *analysis.GapAnalysis `json:"gapAnalysis"`
	SICCode     string                `json:"sicCode"`
}

// ListWatches returns the user's profile and watched companies, newest first
func (uc *DashboardUseCase) ListWatches(ctx context.Context, session *auth.Session) (*Dashboard, error) {
	var (
		profile *model.Profile
		watches []*model.Watch
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := uc.profiles.load(egCtx, session)
		profile = p
		return err
	})
	eg.Go(func() error {
		w, err := listWatchesWithCompany(egCtx, uc.repo, session)
		watches = w
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	limit, _ := uc.plans.WatchLimit(profile.CurrentPlan())
	return &Dashboard{
		Profile:    profile,
		Watches:    watches,
		WatchLimit: limit,
	}, nil
}

// listWatchesWithCompany lists the user's watches with their company joined
func listWatchesWithCompany(ctx context.Context, repo interfaces.Repository, session *auth.Session) ([]*model.Watch, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "session is required")
	}

	watches, err := repo.Watch().List(ctx, session.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list watches", goerr.V(UserIDKey, session.UserID))
	}
	if len(watches) == 0 {
		return []*model.Watch{}, nil
	}

	ciks := make([]types.CIK, len(watches))
	for i, w := range watches {
		ciks[i] = w.CIK
	}
	companies, err := repo.Company().GetMany(ctx, ciks)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get watched companies", goerr.V(UserIDKey, session.UserID))
	}

	byCIK := make(map[types.CIK]*model.Company, len(companies))
	for _, c := range companies {
		byCIK[c.CIK] = c
	}
	for _, w := range watches {
		w.Company = byCIK[w.CIK]
	}
	return watches, nil
}

// AddWatch starts watching a company, enforcing the plan's watch limit
func (uc *DashboardUseCase) AddWatch(ctx context.Context, session *auth.Session, cik types.CIK) (*model.Watch, error) {
	if err := cik.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid CIK", goerr.V(CIKKey, cik))
	}

	profile, err := uc.profiles.load(ctx, session)
	if err != nil {
		return nil, err
	}

	company, err := uc.repo.Company().Get(ctx, cik)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrCompanyNotFound, "cannot watch unknown company", goerr.V(CIKKey, cik))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get company", goerr.V(CIKKey, cik))
	}

	if limit, ok := uc.plans.WatchLimit(profile.CurrentPlan()); ok {
		existing, err := uc.repo.Watch().List(ctx, session.UserID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list watches", goerr.V(UserIDKey, session.UserID))
		}
		for _, w := range existing {
			if w.CIK == cik {
				return nil, goerr.Wrap(ErrAlreadyWatching, "cannot add watch", goerr.V(CIKKey, cik))
			}
		}
		if len(existing) >= limit {
			return nil, goerr.Wrap(ErrPlanLimit, "cannot add watch",
				goerr.V(UserIDKey, session.UserID),
				goerr.V("plan", profile.CurrentPlan()),
				goerr.V("limit", limit))
		}
	}

	watch := &model.Watch{
		ID:        types.NewWatchID(),
		UserID:    session.UserID,
		CIK:       cik,
		CreatedAt: uc.profiles.now(),
	}
	if err := uc.repo.Watch().Create(ctx, watch); err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return nil, goerr.Wrap(ErrAlreadyWatching, "cannot add watch", goerr.V(CIKKey, cik))
		}
		return nil, goerr.Wrap(err, "failed to create watch", goerr.V(CIKKey, cik))
	}

	logging.From(ctx).Info("watch added",
		slog.String("user_id", session.UserID.String()),
		slog.String("cik", cik.String()))

	watch.Company = company
	return watch, nil
}

// RemoveWatch stops watching a company
func (uc *DashboardUseCase) RemoveWatch(ctx context.Context, session *auth.Session, id types.WatchID) error {
	if session == nil {
		return goerr.Wrap(ErrUnauthenticated, "session is required")
	}
	if err := id.Validate(); err != nil {
		return goerr.Wrap(ErrWatchNotFound, "invalid watch id", goerr.V(WatchIDKey, id))
	}

	if err := uc.repo.Watch().Delete(ctx, session.UserID, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrWatchNotFound, "cannot remove watch", goerr.V(WatchIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete watch", goerr.V(WatchIDKey, id))
	}
	return nil
}

// CompanyDetail loads the company behind a watch with its recent annual
// reports and the industry gap analysis of the latest one
func (uc *DashboardUseCase) CompanyDetail(ctx context.Context, session *auth.Session, id types.WatchID) (*CompanyDetail, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "session is required")
	}
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrWatchNotFound, "invalid watch id", goerr.V(WatchIDKey, id))
	}

	watch, err := uc.repo.Watch().Get(ctx, session.UserID, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrWatchNotFound, "cannot show company", goerr.V(WatchIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get watch", goerr.V(WatchIDKey, id))
	}

	var (
		company *model.Company
		filings []*model.Filing
		names   analysis.ThemeNames
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		c, err := uc.repo.Company().Get(egCtx, watch.CIK)
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrCompanyNotFound, "watched company is missing", goerr.V(CIKKey, watch.CIK))
		}
		if err != nil {
			return goerr.Wrap(err, "failed to get company", goerr.V(CIKKey, watch.CIK))
		}
		company = c
		return nil
	})
	eg.Go(func() error {
		f, err := uc.repo.Filing().ListByCompany(egCtx, watch.CIK, model.FormType10K, recentFilingLimit)
		if err != nil {
			return goerr.Wrap(err, "failed to list filings", goerr.V(CIKKey, watch.CIK))
		}
		filings = f
		return nil
	})
	eg.Go(func() error {
		n, err := loadThemeNames(egCtx, uc.repo)
		names = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	model.SortFilingsNewestFirst(filings)

	var benchmark []types.ThemeID
	eg, egCtx = errgroup.WithContext(ctx)
	eg.Go(func() error {
		return attachRisks(egCtx, uc.repo, filings)
	})
	if len(filings) > 0 && company.SICCode > 0 {
		eg.Go(func() error {
			ids, err := uc.repo.Benchmark().ListThemeIDs(egCtx, company.SICCode)
			if err != nil {
				return goerr.Wrap(err, "failed to list industry benchmark", goerr.V("sic_code", company.SICCode))
			}
			benchmark = ids
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	companyThemes := analysis.NewThemeSet()
	if len(filings) > 0 {
		for _, r := range filings[0].Risks {
			companyThemes.Add(r.ThemeID)
		}
	}

	watch.Company = company
	return &CompanyDetail{
		Watch:       watch,
		Company:     company,
		Filings:     filings,
		GapAnalysis: analysis.ComputeGaps(analysis.NewThemeSet(benchmark...), companyThemes, names),
		SICCode:     company.SICCode.String(),
	}, nil
}

// attachRisks loads the risks of all filings and stores them on each filing
// in position order
func attachRisks(ctx context.Context, repo interfaces.Repository, filings []*model.Filing) error {
	if len(filings) == 0 {
		return nil
	}

	accessions := make([]types.AccessionNumber, len(filings))
	for i, f := range filings {
		accessions[i] = f.AccessionNumber
	}

	risks, err := repo.Risk().ListByFilings(ctx, accessions)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks", goerr.V("filings", len(filings)))
	}

	byFiling := make(map[types.AccessionNumber][]*model.Risk, len(filings))
	for _, r := range risks {
		byFiling[r.AccessionNumber] = append(byFiling[r.AccessionNumber], r)
	}
	for _, f := range filings {
		f.Risks = byFiling[f.AccessionNumber]
		if f.Risks == nil {
			f.Risks = []*model.Risk{}
		}
		model.SortRisksByPosition(f.Risks)
	}
	return nil
}

// loadThemeNames maps every catalog theme id to its display name
func loadThemeNames(ctx context.Context, repo interfaces.Repository) (analysis.ThemeNames, error) {
	themes, err := repo.Theme().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list themes")
	}
	names := make(analysis.ThemeNames, len(themes))
	for _, t := range themes {
		names[t.ID] = t.Name
	}
	return names, nil
}
