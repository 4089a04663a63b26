package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/analysis"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/taxonomy"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// compareFanOut bounds concurrent per-company loads
const compareFanOut = 4

type CompareUseCase struct {
	repo     interfaces.Repository
	profiles *profileLoader
	plans    *config.PlanConfig
	taxonomy *taxonomy.Taxonomy
}

func NewCompareUseCase(repo interfaces.Repository, profiles *profileLoader, plans *config.PlanConfig, tax *taxonomy.Taxonomy) *CompareUseCase {
	return &CompareUseCase{
		repo:     repo,
		profiles: profiles,
		plans:    plans,
		taxonomy: tax,
	}
}

// CompanyRisks is one company's latest annual report risks grouped by theme.
type CompanyRisks struct {
	Company *model.Company                  `json:"company"`
	Risks   map[types.ThemeID][]*model.Risk `json:"risks"`
}

// Comparison is the page data of the cross-company comparison.
type Comparison struct {
	Watches      []*model.Watch              `json:"watches"`
	SelectedCIKs []types.CIK                 `json:"selectedCiks"`
	CompanyRisks map[types.CIK]*CompanyRisks `json:"companyRisks"`
	Matrix       []analysis.MatrixCategory   `json:"matrix"`
	ThemeMap     analysis.ThemeNames         `json:"themeMap"`
}

// Matrix compares the latest annual report of each selected company theme by
// theme. Unknown companies stay in the selection and show as not disclosing.
func (uc *CompareUseCase) Matrix(ctx context.Context, session *auth.Session, selected []types.CIK) (*Comparison, error) {
	if session == nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "session is required")
	}
	for _, cik := range selected {
		if err := cik.Validate(); err != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid CIK in selection", goerr.V(CIKKey, cik))
		}
	}

	if len(selected) > 0 && uc.plans != nil && uc.plans.CompareRequiresPaid {
		profile, err := uc.profiles.load(ctx, session)
		if err != nil {
			return nil, err
		}
		if !profile.CurrentPlan().IsPaid() {
			return nil, goerr.Wrap(ErrPaidPlanRequired, "cannot compare companies",
				goerr.V(UserIDKey, session.UserID),
				goerr.V("plan", profile.CurrentPlan()))
		}
	}

	var (
		watches []*model.Watch
		names   analysis.ThemeNames
		risks   map[types.CIK]*CompanyRisks
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		w, err := listWatchesWithCompany(egCtx, uc.repo, session)
		watches = w
		return err
	})
	eg.Go(func() error {
		n, err := loadThemeNames(egCtx, uc.repo)
		names = n
		return err
	})
	eg.Go(func() error {
		r, err := uc.loadCompanyRisks(egCtx, selected)
		risks = r
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	lookup := make(analysis.RiskLookup, len(risks))
	for cik, cr := range risks {
		lookup[cik] = cr.Risks
	}

	result := analysis.ComputeMatrix(selected, lookup, uc.taxonomy, names)
	if len(result.Unmapped) > 0 {
		logging.From(ctx).Warn("themes without taxonomy category are not compared",
			slog.Any("theme_ids", result.Unmapped))
	}

	return &Comparison{
		Watches:      watches,
		SelectedCIKs: append([]types.CIK{}, selected...),
		CompanyRisks: risks,
		Matrix:       result.Categories,
		ThemeMap:     names,
	}, nil
}

// loadCompanyRisks reads each known company's latest 10-K risks. Risks
// without a theme are left out.
func (uc *CompareUseCase) loadCompanyRisks(ctx context.Context, selected []types.CIK) (map[types.CIK]*CompanyRisks, error) {
	result := make(map[types.CIK]*CompanyRisks)
	if len(selected) == 0 {
		return result, nil
	}

	companies, err := uc.repo.Company().GetMany(ctx, selected)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get companies", goerr.V("companies", len(selected)))
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(compareFanOut)

	for _, company := range companies {
		eg.Go(func() error {
			grouped, err := uc.latestRisksByTheme(egCtx, company.CIK)
			if err != nil {
				return err
			}
			mu.Lock()
			result[company.CIK] = &CompanyRisks{Company: company, Risks: grouped}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *CompareUseCase) latestRisksByTheme(ctx context.Context, cik types.CIK) (map[types.ThemeID][]*model.Risk, error) {
	grouped := make(map[types.ThemeID][]*model.Risk)

	filings, err := uc.repo.Filing().ListByCompany(ctx, cik, model.FormType10K, 1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest filing", goerr.V(CIKKey, cik))
	}
	if len(filings) == 0 {
		return grouped, nil
	}

	risks, err := uc.repo.Risk().ListByFilings(ctx, []types.AccessionNumber{filings[0].AccessionNumber})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks",
			goerr.V(CIKKey, cik),
			goerr.V("accession_number", filings[0].AccessionNumber))
	}

	for _, r := range risks {
		if r.ThemeID == "" {
			continue
		}
		grouped[r.ThemeID] = append(grouped[r.ThemeID], r)
	}
	return grouped, nil
}
