package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Company is an issuer of filings.
type Company struct {
	CIK     types.CIK     `json:"cik" yaml:"cik"`
	Name    string        `json:"name" yaml:"name"`
	Ticker  string        `json:"ticker" yaml:"ticker"`
	SICCode types.SICCode `json:"sic_code" yaml:"sic_code"`
}

// Validate checks if the Company is valid
func (c *Company) Validate() error {
	if err := c.CIK.Validate(); err != nil {
		return goerr.Wrap(err, "invalid company")
	}
	if c.Name == "" {
		return goerr.New("company name is required", goerr.V("cik", c.CIK))
	}
	return nil
}
