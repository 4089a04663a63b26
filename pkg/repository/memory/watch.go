package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type watchRepository struct {
	mu      sync.RWMutex
	watches map[types.WatchID]*model.Watch
}

func newWatchRepository() *watchRepository {
	return &watchRepository{
		watches: make(map[types.WatchID]*model.Watch),
	}
}

func copyWatch(w *model.Watch) *model.Watch {
	copied := *w
	copied.Company = nil
	return &copied
}

func (r *watchRepository) Create(ctx context.Context, watch *model.Watch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.watches {
		if w.UserID == watch.UserID && w.CIK == watch.CIK {
			return goerr.Wrap(ErrAlreadyExists, "company already watched",
				goerr.V("user_id", watch.UserID), goerr.V("cik", watch.CIK))
		}
	}
	r.watches[watch.ID] = copyWatch(watch)
	return nil
}

func (r *watchRepository) Get(ctx context.Context, userID types.UserID, id types.WatchID) (*model.Watch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.watches[id]
	if !ok || w.UserID != userID {
		return nil, goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}
	return copyWatch(w), nil
}

func (r *watchRepository) List(ctx context.Context, userID types.UserID) ([]*model.Watch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Watch
	for _, w := range r.watches {
		if w.UserID == userID {
			result = append(result, copyWatch(w))
		}
	}
	slices.SortFunc(result, func(a, b *model.Watch) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *watchRepository) Delete(ctx context.Context, userID types.UserID, id types.WatchID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[id]
	if !ok || w.UserID != userID {
		return goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}
	delete(r.watches, id)
	return nil
}

func (r *watchRepository) DeleteAll(ctx context.Context, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.watches {
		if w.UserID == userID {
			delete(r.watches, id)
		}
	}
	return nil
}
