package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/analysis"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Kinds of validation issues
const (
	IssueTaxonomy     = "taxonomy"
	IssueUnmapped     = "unmapped"
	IssueMissing      = "missing"
	IssueUnknownTheme = "unknown_theme"
)

// ValidationIssue represents a single validation issue found during the catalog consistency check
type ValidationIssue struct {
	Kind    string
	ThemeID types.ThemeID
	Message string
}

// ValidationResult holds the results of validation
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateTaxonomy checks the category table itself
func (uc *UseCases) ValidateTaxonomy() *ValidationResult {
	result := &ValidationResult{}
	if err := uc.taxonomy.Validate(); err != nil {
		result.AddIssue(ValidationIssue{
			Kind:    IssueTaxonomy,
			Message: err.Error(),
		})
	}
	return result
}

// ValidateCatalog compares the theme catalog and the themes risks are tagged
// with against the taxonomy. It does NOT modify any data.
func (uc *UseCases) ValidateCatalog(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	themes, err := uc.repo.Theme().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list themes")
	}
	riskThemeIDs, err := uc.repo.Risk().ListThemeIDs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk themes")
	}

	catalog := analysis.NewThemeSet()
	for _, t := range themes {
		catalog.Add(t.ID)
	}

	for _, id := range analysis.NewThemeSet(riskThemeIDs...).Sorted() {
		if !catalog.Has(id) {
			result.AddIssue(ValidationIssue{
				Kind:    IssueUnknownTheme,
				ThemeID: id,
				Message: "risks are tagged with a theme missing from the catalog",
			})
		}
	}

	inUse := analysis.NewThemeSet(riskThemeIDs...)
	for id := range catalog {
		inUse.Add(id)
	}
	for _, id := range uc.taxonomy.Unmapped(inUse.Sorted()) {
		result.AddIssue(ValidationIssue{
			Kind:    IssueUnmapped,
			ThemeID: id,
			Message: "theme has no taxonomy category and is left out of comparisons",
		})
	}

	for _, id := range uc.taxonomy.ThemeIDs() {
		if !catalog.Has(id) {
			result.AddIssue(ValidationIssue{
				Kind:    IssueMissing,
				ThemeID: id,
				Message: "taxonomy theme is not in the catalog",
			})
		}
	}

	return result, nil
}
