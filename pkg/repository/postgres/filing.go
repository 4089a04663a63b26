package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

const filingColumns = `accession_number, cik, filing_date, form_type, COALESCE(fiscal_period, ''), COALESCE(sec_url, '')`

type filingRepository struct {
	db db
}

func scanFiling(row pgx.Row) (*model.Filing, error) {
	var f model.Filing
	if err := row.Scan(&f.AccessionNumber, &f.CIK, &f.FilingDate, &f.FormType, &f.FiscalPeriod, &f.SecURL); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *filingRepository) collect(rows pgx.Rows) ([]*model.Filing, error) {
	defer rows.Close()

	var result []*model.Filing
	for rows.Next() {
		f, err := scanFiling(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan filing")
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate filings")
	}
	return result, nil
}

func (r *filingRepository) ListByCompany(ctx context.Context, cik types.CIK, formType string, limit int) ([]*model.Filing, error) {
	query := `SELECT ` + filingColumns + ` FROM filings
		WHERE cik = $1 AND form_type = $2
		ORDER BY filing_date DESC, accession_number DESC`
	args := []any{string(cik), formType}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query filings", goerr.V("cik", cik), goerr.V("form_type", formType))
	}
	return r.collect(rows)
}

func (r *filingRepository) GetMany(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Filing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+filingColumns+` FROM filings WHERE accession_number = ANY($1)`, stringSlice(accessions))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query filings")
	}
	found, err := r.collect(rows)
	if err != nil {
		return nil, err
	}

	byAcc := make(map[types.AccessionNumber]*model.Filing, len(found))
	for _, f := range found {
		byAcc[f.AccessionNumber] = f
	}
	result := make([]*model.Filing, 0, len(found))
	for _, acc := range accessions {
		if f, ok := byAcc[acc]; ok {
			result = append(result, f)
			delete(byAcc, acc)
		}
	}
	return result, nil
}

func (r *filingRepository) Put(ctx context.Context, f *model.Filing) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO filings (accession_number, cik, filing_date, form_type, fiscal_period, sec_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		ON CONFLICT (accession_number) DO UPDATE
		SET cik = EXCLUDED.cik, filing_date = EXCLUDED.filing_date, form_type = EXCLUDED.form_type,
		    fiscal_period = EXCLUDED.fiscal_period, sec_url = EXCLUDED.sec_url
	`, string(f.AccessionNumber), string(f.CIK), f.FilingDate, f.FormType, f.FiscalPeriod, f.SecURL)
	if err != nil {
		return goerr.Wrap(err, "failed to put filing", goerr.V("accession_number", f.AccessionNumber))
	}
	return nil
}
