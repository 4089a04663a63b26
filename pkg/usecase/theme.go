package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultThemeRiskLimit is the page size of the theme explorer
	DefaultThemeRiskLimit = 30
	// MaxThemeRiskLimit caps the page size a client may request
	MaxThemeRiskLimit = 100

	maxThemeRiskFetch = 8 * (MaxThemeRiskLimit + 1)
)

type ThemeUseCase struct {
	repo interfaces.Repository
}

func NewThemeUseCase(repo interfaces.Repository) *ThemeUseCase {
	return &ThemeUseCase{repo: repo}
}

// ThemeExplorer is the page data of one theme across all companies.
type ThemeExplorer struct {
	Theme        *model.Theme                `json:"theme"`
	Risks        []*model.ThemeRisk          `json:"risks"`
	HasMore      bool                        `json:"hasMore"`
	CurrentLimit int                         `json:"currentLimit"`
	WatchMap     map[types.CIK]types.WatchID `json:"watchMap"`
}

// NormalizeThemeRiskLimit clamps a requested page size; non-positive values
// select the default
func NormalizeThemeRiskLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultThemeRiskLimit
	case limit > MaxThemeRiskLimit:
		return MaxThemeRiskLimit
	default:
		return limit
	}
}

// Explore lists the newest risks tagged with a theme together with the
// filing and company they come from
func (uc *ThemeUseCase) Explore(ctx context.Context, session *auth.Session, themeID types.ThemeID, limit int) (*ThemeExplorer, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "session is required")
	}
	if err := themeID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrThemeNotFound, "invalid theme id", goerr.V(ThemeIDKey, themeID))
	}
	limit = NormalizeThemeRiskLimit(limit)

	var (
		theme      *model.Theme
		themeRisks []*model.ThemeRisk
		hasMore    bool
		watches    []*model.Watch
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		t, err := uc.repo.Theme().Get(egCtx, themeID)
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrThemeNotFound, "cannot explore theme", goerr.V(ThemeIDKey, themeID))
		}
		if err != nil {
			return goerr.Wrap(err, "failed to get theme", goerr.V(ThemeIDKey, themeID))
		}
		theme = t
		return nil
	})
	eg.Go(func() error {
		r, more, err := uc.listJoinedRisks(egCtx, themeID, limit)
		if err != nil {
			return err
		}
		themeRisks, hasMore = r, more
		return nil
	})
	eg.Go(func() error {
		w, err := uc.repo.Watch().List(egCtx, session.UserID)
		if err != nil {
			return goerr.Wrap(err, "failed to list watches", goerr.V(UserIDKey, session.UserID))
		}
		watches = w
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	watchMap := make(map[types.CIK]types.WatchID, len(watches))
	for _, w := range watches {
		watchMap[w.CIK] = w.ID
	}

	return &ThemeExplorer{
		Theme:        theme,
		Risks:        themeRisks,
		HasMore:      hasMore,
		CurrentLimit: limit,
		WatchMap:     watchMap,
	}, nil
}

// listJoinedRisks returns up to limit joined risks and whether more exist.
// One extra row tells whether another page exists. Risks dropped by the join
// do not count, so the fetch widens until the page is full or the theme runs
// out of risks.
func (uc *ThemeUseCase) listJoinedRisks(ctx context.Context, themeID types.ThemeID, limit int) ([]*model.ThemeRisk, bool, error) {
	fetch := limit + 1
	for {
		risks, err := uc.repo.Risk().ListByTheme(ctx, themeID, fetch)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to list risks",
				goerr.V(ThemeIDKey, themeID), goerr.V("fetch", fetch))
		}

		joined, err := uc.joinFilings(ctx, risks)
		if err != nil {
			return nil, false, err
		}

		exhausted := len(risks) < fetch
		if len(joined) > limit {
			return joined[:limit], true, nil
		}
		if exhausted {
			return joined, false, nil
		}
		if fetch >= maxThemeRiskFetch {
			// stop widening; the raw list still has rows past this page
			return joined, true, nil
		}
		fetch = min(fetch*2, maxThemeRiskFetch)
	}
}

// joinFilings attaches filing date and company to each risk. Risks whose
// filing or company is missing are dropped, as an inner join would.
func (uc *ThemeUseCase) joinFilings(ctx context.Context, risks []*model.Risk) ([]*model.ThemeRisk, error) {
	result := make([]*model.ThemeRisk, 0, len(risks))
	if len(risks) == 0 {
		return result, nil
	}

	seen := make(map[types.AccessionNumber]struct{})
	var accessions []types.AccessionNumber
	for _, r := range risks {
		if _, ok := seen[r.AccessionNumber]; ok {
			continue
		}
		seen[r.AccessionNumber] = struct{}{}
		accessions = append(accessions, r.AccessionNumber)
	}

	filings, err := uc.repo.Filing().GetMany(ctx, accessions)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get filings", goerr.V("filings", len(accessions)))
	}
	filingMap := make(map[types.AccessionNumber]*model.Filing, len(filings))
	cikSeen := make(map[types.CIK]struct{})
	var ciks []types.CIK
	for _, f := range filings {
		filingMap[f.AccessionNumber] = f
		if _, ok := cikSeen[f.CIK]; !ok {
			cikSeen[f.CIK] = struct{}{}
			ciks = append(ciks, f.CIK)
		}
	}

	companies, err := uc.repo.Company().GetMany(ctx, ciks)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get companies", goerr.V("companies", len(ciks)))
	}
	companyMap := make(map[types.CIK]*model.Company, len(companies))
	for _, c := range companies {
		companyMap[c.CIK] = c
	}

	for _, r := range risks {
		f, ok := filingMap[r.AccessionNumber]
		if !ok {
			continue
		}
		c, ok := companyMap[f.CIK]
		if !ok {
			continue
		}
		result = append(result, &model.ThemeRisk{
			Risk:       r,
			FilingDate: f.FilingDate,
			Company:    c,
		})
	}
	return result, nil
}
