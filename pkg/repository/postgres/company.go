package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

const companyColumns = `cik, name, COALESCE(ticker, ''), COALESCE(sic_code, 0)`

type companyRepository struct {
	db db
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var (
		c   model.Company
		sic int64
	)
	if err := row.Scan(&c.CIK, &c.Name, &c.Ticker, &sic); err != nil {
		return nil, err
	}
	c.SICCode = types.SICCode(sic)
	return &c, nil
}

func (r *companyRepository) Get(ctx context.Context, cik types.CIK) (*model.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE cik = $1`, string(cik))
	c, err := scanCompany(row)
	if err != nil {
		if isNoRows(err) {
			return nil, goerr.Wrap(ErrNotFound, "company not found", goerr.V("cik", cik))
		}
		return nil, goerr.Wrap(err, "failed to get company", goerr.V("cik", cik))
	}
	return c, nil
}

func (r *companyRepository) GetMany(ctx context.Context, ciks []types.CIK) ([]*model.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies WHERE cik = ANY($1)`, stringSlice(ciks))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query companies", goerr.V("ciks", ciks))
	}
	defer rows.Close()

	byCIK := make(map[types.CIK]*model.Company, len(ciks))
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan company")
		}
		byCIK[c.CIK] = c
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate companies")
	}

	result := make([]*model.Company, 0, len(byCIK))
	for _, cik := range ciks {
		if c, ok := byCIK[cik]; ok {
			result = append(result, c)
			delete(byCIK, cik)
		}
	}
	return result, nil
}

func (r *companyRepository) Put(ctx context.Context, c *model.Company) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO companies (cik, name, ticker, sic_code)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, 0))
		ON CONFLICT (cik) DO UPDATE
		SET name = EXCLUDED.name, ticker = EXCLUDED.ticker, sic_code = EXCLUDED.sic_code
	`, string(c.CIK), c.Name, c.Ticker, int64(c.SICCode))
	if err != nil {
		return goerr.Wrap(err, "failed to put company", goerr.V("cik", c.CIK))
	}
	return nil
}
