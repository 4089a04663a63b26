package analysis

import (
	"cmp"
	"slices"

	"github.com/vanerisk/vane/pkg/domain/types"
)

// Gap is a benchmark theme the company does not disclose.
type Gap struct {
	ThemeID   types.ThemeID `json:"theme_id"`
	ThemeName string        `json:"theme_name"`
}

// GapAnalysis compares a company's disclosed themes against its industry benchmark.
type GapAnalysis struct {
	Gaps                []Gap `json:"gaps"`
	CoveragePct         int   `json:"coveragePct"`
	TotalIndustryThemes int   `json:"totalIndustryThemes"`
	CompanyThemeCount   int   `json:"companyThemeCount"`
}

// ComputeGaps returns the benchmark themes missing from company and the share
// of the benchmark the company covers. Themes the company discloses outside
// the benchmark are not counted. Coverage is 0 for an empty benchmark.
func ComputeGaps(benchmark, company ThemeSet, names ThemeNames) *GapAnalysis {
	gaps := make([]Gap, 0)
	for id := range benchmark {
		if company.Has(id) {
			continue
		}
		gaps = append(gaps, Gap{ThemeID: id, ThemeName: names.Name(id)})
	}
	slices.SortFunc(gaps, func(a, b Gap) int {
		return cmp.Or(cmp.Compare(a.ThemeName, b.ThemeName), cmp.Compare(a.ThemeID, b.ThemeID))
	})

	total := len(benchmark)
	covered := total - len(gaps)

	return &GapAnalysis{
		Gaps:                gaps,
		CoveragePct:         percent(covered, total),
		TotalIndustryThemes: total,
		CompanyThemeCount:   covered,
	}
}

// percent rounds part/total*100 half-up in integer arithmetic.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
