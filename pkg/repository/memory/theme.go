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

type themeRepository struct {
	mu     sync.RWMutex
	themes map[types.ThemeID]*model.Theme
}

func newThemeRepository() *themeRepository {
	return &themeRepository{
		themes: make(map[types.ThemeID]*model.Theme),
	}
}

func (r *themeRepository) Get(ctx context.Context, id types.ThemeID) (*model.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	theme, ok := r.themes[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "theme not found", goerr.V("id", id))
	}
	copied := *theme
	return &copied, nil
}

func (r *themeRepository) List(ctx context.Context) ([]*model.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Theme, 0, len(r.themes))
	for _, theme := range r.themes {
		copied := *theme
		result = append(result, &copied)
	}
	slices.SortFunc(result, func(a, b *model.Theme) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (r *themeRepository) Put(ctx context.Context, theme *model.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *theme
	r.themes[theme.ID] = &copied
	return nil
}

type benchmarkRepository struct {
	mu         sync.RWMutex
	benchmarks map[types.SICCode]map[types.ThemeID]struct{}
}

func newBenchmarkRepository() *benchmarkRepository {
	return &benchmarkRepository{
		benchmarks: make(map[types.SICCode]map[types.ThemeID]struct{}),
	}
}

func (r *benchmarkRepository) ListThemeIDs(ctx context.Context, sic types.SICCode) ([]types.ThemeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.ThemeID, 0, len(r.benchmarks[sic]))
	for id := range r.benchmarks[sic] {
		result = append(result, id)
	}
	slices.Sort(result)
	return result, nil
}

func (r *benchmarkRepository) Put(ctx context.Context, benchmark *model.IndustryBenchmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	themes, ok := r.benchmarks[benchmark.SICCode]
	if !ok {
		themes = make(map[types.ThemeID]struct{})
		r.benchmarks[benchmark.SICCode] = themes
	}
	themes[benchmark.ThemeID] = struct{}{}
	return nil
}
