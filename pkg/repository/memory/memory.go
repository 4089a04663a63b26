package memory

import (
	"github.com/vanerisk/vane/pkg/domain/interfaces"
)

// Memory is an in-process repository. It backs tests and local development.
type Memory struct {
	company   *companyRepository
	filing    *filingRepository
	risk      *riskRepository
	theme     *themeRepository
	benchmark *benchmarkRepository
	profile   *profileRepository
	watch     *watchRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		company:   newCompanyRepository(),
		filing:    newFilingRepository(),
		risk:      newRiskRepository(),
		theme:     newThemeRepository(),
		benchmark: newBenchmarkRepository(),
		profile:   newProfileRepository(),
		watch:     newWatchRepository(),
	}
}

func (m *Memory) Company() interfaces.CompanyRepository {
	return m.company
}

func (m *Memory) Filing() interfaces.FilingRepository {
	return m.filing
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Theme() interfaces.ThemeRepository {
	return m.theme
}

func (m *Memory) Benchmark() interfaces.BenchmarkRepository {
	return m.benchmark
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) Watch() interfaces.WatchRepository {
	return m.watch
}

func (m *Memory) Close() error {
	return nil
}
