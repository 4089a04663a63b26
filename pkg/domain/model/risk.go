package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Risk is one risk factor disclosed in a filing.
type Risk struct {
	ID              string                `json:"risk_id" yaml:"id"`
	AccessionNumber types.AccessionNumber `json:"accession_number" yaml:"accession_number"`
	Title           string                `json:"risk_title" yaml:"title"`
	Summary         string                `json:"risk_summary" yaml:"summary"`
	VerbatimQuote   string                `json:"verbatim_quote,omitempty" yaml:"verbatim_quote"`
	Category        string                `json:"category" yaml:"category"`
	Severity        types.Severity        `json:"severity" yaml:"severity"`
	ThemeID         types.ThemeID         `json:"theme_id,omitempty" yaml:"theme_id"`
	Position        int                   `json:"position" yaml:"position"`
	CreatedAt       time.Time             `json:"created_at" yaml:"created_at"`
}

// Validate checks if the Risk is valid
func (r *Risk) Validate() error {
	if r.ID == "" {
		return goerr.New("risk ID is required")
	}
	if r.AccessionNumber == "" {
		return goerr.New("risk must belong to a filing", goerr.V("id", r.ID))
	}
	if r.ThemeID != "" {
		if err := r.ThemeID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk theme", goerr.V("id", r.ID))
		}
	}
	return nil
}

// ThemeRisk is a risk listed under a theme together with where it was disclosed.
type ThemeRisk struct {
	*Risk
	FilingDate time.Time `json:"filing_date"`
	Company    *Company  `json:"company"`
}
