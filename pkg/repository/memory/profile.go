package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.Profile
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.Profile),
	}
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
	}
	copied := *p
	return &copied, nil
}

func (r *profileRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if customerID != "" {
		for _, p := range r.profiles {
			if p.StripeCustomerID == customerID {
				copied := *p
				return &copied, nil
			}
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("customer_id", customerID))
}

func (r *profileRepository) Put(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
	}
	delete(r.profiles, id)
	return nil
}
