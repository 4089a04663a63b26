package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
)

//go:embed schema.sql
var schema string

// db is the subset of pgxpool.Pool the repositories use.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Postgres stores everything in a hosted Postgres database.
type Postgres struct {
	pool *pgxpool.Pool

	company   *companyRepository
	filing    *filingRepository
	risk      *riskRepository
	theme     *themeRepository
	benchmark *benchmarkRepository
	profile   *profileRepository
	watch     *watchRepository
}

var _ interfaces.Repository = &Postgres{}

// New opens a connection pool and checks connectivity.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid postgres DSN")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool", goerr.V("host", cfg.ConnConfig.Host))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to connect to postgres", goerr.V("host", cfg.ConnConfig.Host))
	}

	return &Postgres{
		pool:      pool,
		company:   &companyRepository{db: pool},
		filing:    &filingRepository{db: pool},
		risk:      &riskRepository{db: pool},
		theme:     &themeRepository{db: pool},
		benchmark: &benchmarkRepository{db: pool},
		profile:   &profileRepository{db: pool},
		watch:     &watchRepository{db: pool},
	}, nil
}

// Migrate creates the tables and indexes if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (p *Postgres) Company() interfaces.CompanyRepository {
	return p.company
}

func (p *Postgres) Filing() interfaces.FilingRepository {
	return p.filing
}

func (p *Postgres) Risk() interfaces.RiskRepository {
	return p.risk
}

func (p *Postgres) Theme() interfaces.ThemeRepository {
	return p.theme
}

func (p *Postgres) Benchmark() interfaces.BenchmarkRepository {
	return p.benchmark
}

func (p *Postgres) Profile() interfaces.ProfileRepository {
	return p.profile
}

func (p *Postgres) Watch() interfaces.WatchRepository {
	return p.watch
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func stringSlice[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
