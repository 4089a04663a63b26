package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks map[string]*model.Risk
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks: make(map[string]*model.Risk),
	}
}

func (r *riskRepository) ListByFilings(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[types.AccessionNumber]int, len(accessions))
	for i, acc := range accessions {
		if _, dup := wanted[acc]; !dup {
			wanted[acc] = i
		}
	}

	var result []*model.Risk
	for _, risk := range r.risks {
		if _, ok := wanted[risk.AccessionNumber]; ok {
			copied := *risk
			result = append(result, &copied)
		}
	}

	slices.SortFunc(result, func(a, b *model.Risk) int {
		return cmp.Or(
			cmp.Compare(wanted[a.AccessionNumber], wanted[b.AccessionNumber]),
			cmp.Compare(a.Position, b.Position),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return result, nil
}

func (r *riskRepository) ListByTheme(ctx context.Context, themeID types.ThemeID, limit int) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Risk
	for _, risk := range r.risks {
		if risk.ThemeID == themeID {
			copied := *risk
			result = append(result, &copied)
		}
	}

	slices.SortFunc(result, func(a, b *model.Risk) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *riskRepository) ListThemeIDs(ctx context.Context) ([]types.ThemeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[types.ThemeID]struct{})
	var result []types.ThemeID
	for _, risk := range r.risks {
		if risk.ThemeID == "" {
			continue
		}
		if _, ok := seen[risk.ThemeID]; ok {
			continue
		}
		seen[risk.ThemeID] = struct{}{}
		result = append(result, risk.ThemeID)
	}
	slices.Sort(result)
	return result, nil
}

func (r *riskRepository) PutMany(ctx context.Context, risks []*model.Risk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, risk := range risks {
		copied := *risk
		r.risks[risk.ID] = &copied
	}
	return nil
}
