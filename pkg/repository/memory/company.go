package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type companyRepository struct {
	mu        sync.RWMutex
	companies map[types.CIK]*model.Company
}

func newCompanyRepository() *companyRepository {
	return &companyRepository{
		companies: make(map[types.CIK]*model.Company),
	}
}

func (r *companyRepository) Get(ctx context.Context, cik types.CIK) (*model.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[cik]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "company not found", goerr.V("cik", cik))
	}
	copied := *c
	return &copied, nil
}

func (r *companyRepository) GetMany(ctx context.Context, ciks []types.CIK) ([]*model.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Company, 0, len(ciks))
	for _, cik := range ciks {
		if c, ok := r.companies[cik]; ok {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *companyRepository) Put(ctx context.Context, company *model.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *company
	r.companies[company.CIK] = &copied
	return nil
}
