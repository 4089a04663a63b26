package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/service/dataset"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// DatasetLoader loads a dataset from a source
type DatasetLoader interface {
	Load(ctx context.Context, source string) (*dataset.Dataset, error)
}

// DatasetRefreshWorker periodically reloads the risk factor dataset published
// by the upstream pipeline into the repository.
//
// Architecture assumptions:
// - Dataset records are upserted, so concurrent instances write the same data
// - Records removed from the dataset are kept until the next full reseed
type DatasetRefreshWorker struct {
	repo     interfaces.Repository
	loader   DatasetLoader
	source   string
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	// refreshed is called after every successful cycle
	refreshed func(stats *dataset.Stats)
}

// Option configures a DatasetRefreshWorker
type Option func(*DatasetRefreshWorker)

// WithRefreshedHook sets a function called after each successful refresh
func WithRefreshedHook(f func(stats *dataset.Stats)) Option {
	return func(w *DatasetRefreshWorker) {
		w.refreshed = f
	}
}

// NewDatasetRefreshWorker creates a new worker for reloading source every interval
func NewDatasetRefreshWorker(repo interfaces.Repository, loader DatasetLoader, source string, interval time.Duration, opts ...Option) *DatasetRefreshWorker {
	w := &DatasetRefreshWorker{
		repo:     repo,
		loader:   loader,
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background refresh loop. The initial load also runs in
// the background and does not block server startup.
func (w *DatasetRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Dataset refresh worker starting",
		"source", w.source,
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DatasetRefreshWorker) Stop() {
	logging.Default().Info("Dataset refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Dataset refresh worker stopped")
}

func (w *DatasetRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.refresh(ctx); err != nil {
		logging.Default().Error("Initial dataset refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logging.Default().Error("Dataset refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Dataset refresh worker context cancelled")
			return
		}
	}
}

// refresh performs a single load and upsert. A dataset that fails to load or
// validate leaves the stored data untouched.
func (w *DatasetRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()

	ds, err := w.loader.Load(ctx, w.source)
	if err != nil {
		return goerr.Wrap(err, "failed to load dataset", goerr.V("source", w.source))
	}

	stats, err := dataset.Apply(ctx, w.repo, ds)
	if err != nil {
		return goerr.Wrap(err, "failed to apply dataset", goerr.V("source", w.source))
	}

	logging.Default().Info("Dataset refresh completed",
		"source", w.source,
		"companies", stats.Companies,
		"filings", stats.Filings,
		"risks", stats.Risks,
		"duration", time.Since(startTime).String())

	if w.refreshed != nil {
		w.refreshed(stats)
	}
	return nil
}
