package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type themeRepository struct {
	db db
}

func (r *themeRepository) Get(ctx context.Context, id types.ThemeID) (*model.Theme, error) {
	var t model.Theme
	err := r.db.QueryRow(ctx,
		`SELECT theme_id, theme_name, COALESCE(description, '') FROM risk_themes WHERE theme_id = $1`,
		string(id),
	).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		if isNoRows(err) {
			return nil, goerr.Wrap(ErrNotFound, "theme not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get theme", goerr.V("id", id))
	}
	return &t, nil
}

func (r *themeRepository) List(ctx context.Context) ([]*model.Theme, error) {
	rows, err := r.db.Query(ctx, `SELECT theme_id, theme_name, COALESCE(description, '') FROM risk_themes ORDER BY theme_id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query themes")
	}

	themes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Theme, error) {
		var t model.Theme
		err := row.Scan(&t.ID, &t.Name, &t.Description)
		return &t, err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan themes")
	}
	return themes, nil
}

func (r *themeRepository) Put(ctx context.Context, t *model.Theme) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO risk_themes (theme_id, theme_name, description)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (theme_id) DO UPDATE
		SET theme_name = EXCLUDED.theme_name, description = EXCLUDED.description
	`, string(t.ID), t.Name, t.Description)
	if err != nil {
		return goerr.Wrap(err, "failed to put theme", goerr.V("id", t.ID))
	}
	return nil
}

type benchmarkRepository struct {
	db db
}

func (r *benchmarkRepository) ListThemeIDs(ctx context.Context, sic types.SICCode) ([]types.ThemeID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT theme_id FROM industry_benchmarks WHERE sic_code = $1 ORDER BY theme_id`, int64(sic))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query benchmarks", goerr.V("sic_code", sic))
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan benchmarks", goerr.V("sic_code", sic))
	}

	result := make([]types.ThemeID, len(ids))
	for i, id := range ids {
		result[i] = types.ThemeID(id)
	}
	return result, nil
}

func (r *benchmarkRepository) Put(ctx context.Context, b *model.IndustryBenchmark) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO industry_benchmarks (sic_code, theme_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		int64(b.SICCode), string(b.ThemeID))
	if err != nil {
		return goerr.Wrap(err, "failed to put benchmark", goerr.V("sic_code", b.SICCode), goerr.V("theme_id", b.ThemeID))
	}
	return nil
}
