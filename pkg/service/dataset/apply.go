package dataset

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// Stats counts the records written by Apply.
type Stats struct {
	Themes     int `json:"themes"`
	Companies  int `json:"companies"`
	Filings    int `json:"filings"`
	Risks      int `json:"risks"`
	Benchmarks int `json:"benchmarks"`
}

// Apply upserts the dataset into repo. Referenced records are written first,
// so a partially applied dataset never has risks without their filing.
func Apply(ctx context.Context, repo interfaces.Repository, ds *Dataset) (*Stats, error) {
	var stats Stats

	for _, t := range ds.Themes {
		if err := repo.Theme().Put(ctx, t); err != nil {
			return &stats, goerr.Wrap(err, "failed to put theme", goerr.V("theme_id", t.ID))
		}
		stats.Themes++
	}

	for _, c := range ds.Companies {
		if err := repo.Company().Put(ctx, c); err != nil {
			return &stats, goerr.Wrap(err, "failed to put company", goerr.V("cik", c.CIK))
		}
		stats.Companies++
	}

	for _, f := range ds.Filings {
		filing := f.Filing
		if err := repo.Filing().Put(ctx, &filing); err != nil {
			return &stats, goerr.Wrap(err, "failed to put filing", goerr.V("accession_number", f.AccessionNumber))
		}
		stats.Filings++

		if len(f.Risks) == 0 {
			continue
		}
		if err := repo.Risk().PutMany(ctx, f.Risks); err != nil {
			return &stats, goerr.Wrap(err, "failed to put risks", goerr.V("accession_number", f.AccessionNumber))
		}
		stats.Risks += len(f.Risks)
	}

	for _, b := range ds.Benchmarks {
		for _, id := range b.ThemeIDs {
			if err := repo.Benchmark().Put(ctx, &model.IndustryBenchmark{SICCode: b.SICCode, ThemeID: id}); err != nil {
				return &stats, goerr.Wrap(err, "failed to put benchmark",
					goerr.V("sic_code", b.SICCode),
					goerr.V("theme_id", id))
			}
			stats.Benchmarks++
		}
	}

	logging.From(ctx).Info("dataset applied",
		slog.Int("themes", stats.Themes),
		slog.Int("companies", stats.Companies),
		slog.Int("filings", stats.Filings),
		slog.Int("risks", stats.Risks),
		slog.Int("benchmarks", stats.Benchmarks),
	)
	return &stats, nil
}
