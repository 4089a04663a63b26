package memory

import (
	"context"
	"sync"

	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type filingRepository struct {
	mu      sync.RWMutex
	filings map[types.AccessionNumber]*model.Filing
}

func newFilingRepository() *filingRepository {
	return &filingRepository{
		filings: make(map[types.AccessionNumber]*model.Filing),
	}
}

func copyFiling(f *model.Filing) *model.Filing {
	copied := *f
	copied.Risks = nil
	return &copied
}

func (r *filingRepository) ListByCompany(ctx context.Context, cik types.CIK, formType string, limit int) ([]*model.Filing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Filing
	for _, f := range r.filings {
		if f.CIK != cik || f.FormType != formType {
			continue
		}
		result = append(result, copyFiling(f))
	}

	model.SortFilingsNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *filingRepository) GetMany(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Filing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Filing, 0, len(accessions))
	for _, acc := range accessions {
		if f, ok := r.filings[acc]; ok {
			result = append(result, copyFiling(f))
		}
	}
	return result, nil
}

func (r *filingRepository) Put(ctx context.Context, filing *model.Filing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filings[filing.AccessionNumber] = copyFiling(filing)
	return nil
}
