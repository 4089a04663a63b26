package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

const riskColumns = `risk_id, accession_number, risk_title, COALESCE(risk_summary, ''), COALESCE(verbatim_quote, ''),
	COALESCE(category, ''), COALESCE(severity, ''), COALESCE(theme_id, ''), position, created_at`

type riskRepository struct {
	db db
}

func (r *riskRepository) collect(rows pgx.Rows) ([]*model.Risk, error) {
	defer rows.Close()

	var result []*model.Risk
	for rows.Next() {
		var (
			risk     model.Risk
			severity string
		)
		if err := rows.Scan(&risk.ID, &risk.AccessionNumber, &risk.Title, &risk.Summary, &risk.VerbatimQuote,
			&risk.Category, &severity, &risk.ThemeID, &risk.Position, &risk.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan risk")
		}
		risk.Severity = types.ParseSeverity(severity)
		result = append(result, &risk)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate risks")
	}
	return result, nil
}

func (r *riskRepository) ListByFilings(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Risk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+riskColumns+` FROM risks
		WHERE accession_number = ANY($1)
		ORDER BY array_position($1::text[], accession_number), position, risk_id
	`, stringSlice(accessions))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query risks by filings")
	}
	return r.collect(rows)
}

func (r *riskRepository) ListByTheme(ctx context.Context, themeID types.ThemeID, limit int) ([]*model.Risk, error) {
	query := `SELECT ` + riskColumns + ` FROM risks WHERE theme_id = $1 ORDER BY created_at DESC, risk_id`
	args := []any{string(themeID)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query risks by theme", goerr.V("theme_id", themeID))
	}
	return r.collect(rows)
}

func (r *riskRepository) ListThemeIDs(ctx context.Context) ([]types.ThemeID, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT theme_id FROM risks WHERE theme_id IS NOT NULL AND theme_id <> '' ORDER BY theme_id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query risk themes")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan risk themes")
	}

	result := make([]types.ThemeID, len(ids))
	for i, id := range ids {
		result[i] = types.ThemeID(id)
	}
	return result, nil
}

func (r *riskRepository) PutMany(ctx context.Context, risks []*model.Risk) error {
	if len(risks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, risk := range risks {
		batch.Queue(`
			INSERT INTO risks (risk_id, accession_number, risk_title, risk_summary, verbatim_quote,
				category, severity, theme_id, position, created_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)
			ON CONFLICT (risk_id) DO UPDATE
			SET accession_number = EXCLUDED.accession_number, risk_title = EXCLUDED.risk_title,
			    risk_summary = EXCLUDED.risk_summary, verbatim_quote = EXCLUDED.verbatim_quote,
			    category = EXCLUDED.category, severity = EXCLUDED.severity, theme_id = EXCLUDED.theme_id,
			    position = EXCLUDED.position, created_at = EXCLUDED.created_at
		`, risk.ID, string(risk.AccessionNumber), risk.Title, risk.Summary, risk.VerbatimQuote,
			risk.Category, risk.Severity.String(), string(risk.ThemeID), risk.Position, risk.CreatedAt)
	}

	br := r.db.SendBatch(ctx, batch)
	for _, risk := range risks {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return goerr.Wrap(err, "failed to put risk", goerr.V("risk_id", risk.ID))
		}
	}
	if err := br.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish risk batch")
	}
	return nil
}
