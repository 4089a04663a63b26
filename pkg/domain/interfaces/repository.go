package interfaces

import (
	"context"

	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Company() CompanyRepository
	Filing() FilingRepository
	Risk() RiskRepository
	Theme() ThemeRepository
	Benchmark() BenchmarkRepository
	Profile() ProfileRepository
	Watch() WatchRepository

	Close() error
}

type CompanyRepository interface {
	// Get retrieves a company by CIK
	Get(ctx context.Context, cik types.CIK) (*model.Company, error)

	// GetMany retrieves the companies that exist among ciks. Missing ones are skipped.
	GetMany(ctx context.Context, ciks []types.CIK) ([]*model.Company, error)

	// Put creates or replaces a company
	Put(ctx context.Context, company *model.Company) error
}

type FilingRepository interface {
	// ListByCompany returns filings of formType for a company, newest first.
	// A limit of 0 or less returns all of them.
	ListByCompany(ctx context.Context, cik types.CIK, formType string, limit int) ([]*model.Filing, error)

	// GetMany retrieves filings by accession number. Missing ones are skipped.
	GetMany(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Filing, error)

	// Put creates or replaces a filing. Filing.Risks is not stored.
	Put(ctx context.Context, filing *model.Filing) error
}

type RiskRepository interface {
	// ListByFilings returns the risks of the given filings ordered by position within each filing.
	ListByFilings(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Risk, error)

	// ListByTheme returns the newest risks tagged with themeID, at most limit.
	ListByTheme(ctx context.Context, themeID types.ThemeID, limit int) ([]*model.Risk, error)

	// ListThemeIDs returns every distinct theme id referenced by a risk.
	ListThemeIDs(ctx context.Context) ([]types.ThemeID, error)

	// PutMany creates or replaces risks
	PutMany(ctx context.Context, risks []*model.Risk) error
}

type ThemeRepository interface {
	Get(ctx context.Context, id types.ThemeID) (*model.Theme, error)
	List(ctx context.Context) ([]*model.Theme, error)
	Put(ctx context.Context, theme *model.Theme) error
}

type BenchmarkRepository interface {
	// ListThemeIDs returns the benchmark themes of an industry.
	ListThemeIDs(ctx context.Context, sic types.SICCode) ([]types.ThemeID, error)
	Put(ctx context.Context, benchmark *model.IndustryBenchmark) error
}

type ProfileRepository interface {
	Get(ctx context.Context, id types.UserID) (*model.Profile, error)

	// GetByCustomerID looks up a profile by its billing customer id
	GetByCustomerID(ctx context.Context, customerID string) (*model.Profile, error)

	Put(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id types.UserID) error
}

type WatchRepository interface {
	Create(ctx context.Context, watch *model.Watch) error

	// Get retrieves a watch owned by userID. Watches of other users are not found.
	Get(ctx context.Context, userID types.UserID, id types.WatchID) (*model.Watch, error)

	// List returns the user's watches, newest first
	List(ctx context.Context, userID types.UserID) ([]*model.Watch, error)

	Delete(ctx context.Context, userID types.UserID, id types.WatchID) error
	DeleteAll(ctx context.Context, userID types.UserID) error
}
