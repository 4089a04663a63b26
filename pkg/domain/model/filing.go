package model

import (
	"cmp"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// FormType10K is the annual report form.
const FormType10K = "10-K"

// Filing is a single regulatory disclosure document.
type Filing struct {
	AccessionNumber types.AccessionNumber `json:"accession_number" yaml:"accession_number"`
	CIK             types.CIK             `json:"cik" yaml:"cik"`
	FilingDate      time.Time             `json:"filing_date" yaml:"filing_date"`
	FormType        string                `json:"form_type" yaml:"form_type"`
	FiscalPeriod    string                `json:"fiscal_period" yaml:"fiscal_period"`
	SecURL          string                `json:"sec_url,omitempty" yaml:"sec_url"`

	// Risks is populated by loaders; repositories do not store it on the filing.
	Risks []*Risk `json:"risks,omitempty" yaml:"-"`
}

// Validate checks if the Filing is valid
func (f *Filing) Validate() error {
	if f.AccessionNumber == "" {
		return goerr.New("accession number is required")
	}
	if err := f.CIK.Validate(); err != nil {
		return goerr.Wrap(err, "invalid filing", goerr.V("accession_number", f.AccessionNumber))
	}
	if f.FormType == "" {
		return goerr.New("form type is required", goerr.V("accession_number", f.AccessionNumber))
	}
	return nil
}

// SortRisksByPosition orders risks as they appear in the filing.
func SortRisksByPosition(risks []*Risk) {
	slices.SortStableFunc(risks, func(a, b *Risk) int {
		return cmp.Compare(a.Position, b.Position)
	})
}

// SortFilingsNewestFirst orders filings by filing date, newest first.
func SortFilingsNewestFirst(filings []*Filing) {
	slices.SortStableFunc(filings, func(a, b *Filing) int {
		return b.FilingDate.Compare(a.FilingDate)
	})
}
