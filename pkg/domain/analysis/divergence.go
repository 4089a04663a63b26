package analysis

import (
	"slices"

	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/taxonomy"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// RiskLookup holds each company's disclosed risks grouped by theme.
type RiskLookup map[types.CIK]map[types.ThemeID][]*model.Risk

// Label is a company's severity for one theme. A company that did not
// disclose the theme has no label at all.
type Label string

const (
	LabelUnknown Label = "Unknown"
	LabelLow     Label = "Low"
	LabelMedium  Label = "Medium"
	LabelHigh    Label = "High"
)

// LabelOf folds the risks disclosed under one theme into a label. It returns
// false when there are no risks.
func LabelOf(risks []*model.Risk) (Label, bool) {
	if len(risks) == 0 {
		return "", false
	}

	highest := types.SeverityNone
	for _, r := range risks {
		if r == nil {
			continue
		}
		highest = highest.Max(r.Severity)
	}

	switch highest {
	case types.SeverityHigh:
		return LabelHigh, true
	case types.SeverityMedium:
		return LabelMedium, true
	case types.SeverityLow:
		return LabelLow, true
	default:
		return LabelUnknown, true
	}
}

// MatrixTheme is one row of the comparison matrix.
type MatrixTheme struct {
	ThemeID       types.ThemeID       `json:"theme_id"`
	ThemeName     string              `json:"theme_name"`
	HasDivergence bool                `json:"hasDivergence"`
	Labels        map[types.CIK]Label `json:"labels"`
}

// MatrixCategory groups matrix rows under a taxonomy category.
type MatrixCategory struct {
	Category string        `json:"category"`
	Themes   []MatrixTheme `json:"themes"`
}

// MatrixResult is the divergence matrix for a selection of companies.
// Unmapped lists active themes with no taxonomy category; they are not part
// of Categories.
type MatrixResult struct {
	Categories []MatrixCategory `json:"categories"`
	Unmapped   []types.ThemeID  `json:"unmapped,omitempty"`
}

// ComputeMatrix builds the divergence matrix for the selected companies.
// Categories and themes follow taxonomy order and categories with no
// disclosed theme are omitted. A theme diverges when the disclosed labels
// include both High and Low, or when more than one company is selected and
// only some of them disclose it. Repeated companies in selected count once.
func ComputeMatrix(selected []types.CIK, lookup RiskLookup, tax *taxonomy.Taxonomy, names ThemeNames) *MatrixResult {
	companies := uniqueCIKs(selected)

	active := NewThemeSet()
	for _, cik := range companies {
		for themeID, risks := range lookup[cik] {
			if len(risks) > 0 {
				active.Add(themeID)
			}
		}
	}

	result := &MatrixResult{
		Categories: make([]MatrixCategory, 0),
	}
	for _, category := range tax.Categories() {
		var rows []MatrixTheme
		for _, themeID := range category.ThemeIDs {
			if !active.Has(themeID) {
				continue
			}
			rows = append(rows, buildRow(themeID, companies, lookup, names))
		}
		if len(rows) == 0 {
			continue
		}
		result.Categories = append(result.Categories, MatrixCategory{
			Category: category.Name,
			Themes:   rows,
		})
	}
	result.Unmapped = tax.Unmapped(active.Sorted())

	return result
}

func buildRow(themeID types.ThemeID, companies []types.CIK, lookup RiskLookup, names ThemeNames) MatrixTheme {
	labels := make(map[types.CIK]Label, len(companies))
	var hasHigh, hasLow bool
	for _, cik := range companies {
		label, ok := LabelOf(lookup[cik][themeID])
		if !ok {
			continue
		}
		labels[cik] = label
		hasHigh = hasHigh || label == LabelHigh
		hasLow = hasLow || label == LabelLow
	}

	severityConflict := hasHigh && hasLow
	partialDisclosure := len(companies) > 1 && len(labels) > 0 && len(labels) < len(companies)

	return MatrixTheme{
		ThemeID:       themeID,
		ThemeName:     names.Name(themeID),
		HasDivergence: severityConflict || partialDisclosure,
		Labels:        labels,
	}
}

func uniqueCIKs(ciks []types.CIK) []types.CIK {
	out := make([]types.CIK, 0, len(ciks))
	for _, cik := range ciks {
		if cik == "" || slices.Contains(out, cik) {
			continue
		}
		out = append(out, cik)
	}
	return out
}
