package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Theme is a catalog entry that risks are tagged with.
type Theme struct {
	ID          types.ThemeID `json:"theme_id" yaml:"id"`
	Name        string        `json:"theme_name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description"`
}

// Validate checks if the Theme is valid
func (t *Theme) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid theme")
	}
	if t.Name == "" {
		return goerr.New("theme name is required", goerr.V("id", t.ID))
	}
	return nil
}

// IndustryBenchmark states that companies in an industry typically disclose a theme.
type IndustryBenchmark struct {
	SICCode types.SICCode `json:"sic_code" yaml:"sic_code"`
	ThemeID types.ThemeID `json:"theme_id" yaml:"theme_id"`
}
