package dataset

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// Dataset is the catalog content loaded by `vane seed`.
type Dataset struct {
	Themes     []*model.Theme   `yaml:"themes"`
	Companies  []*model.Company `yaml:"companies"`
	Filings    []*Filing        `yaml:"filings"`
	Benchmarks []*Benchmark     `yaml:"benchmarks"`
}

// Filing is a filing together with the risks disclosed in it.
type Filing struct {
	model.Filing `yaml:",inline"`
	Risks        []*model.Risk `yaml:"risks"`
}

// Benchmark lists the themes typically disclosed in one industry.
type Benchmark struct {
	SICCode  types.SICCode   `yaml:"sic_code"`
	ThemeIDs []types.ThemeID `yaml:"theme_ids"`
}

// Decode reads a YAML dataset. Unknown fields are rejected.
func Decode(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		if err == io.EOF {
			return &ds, nil
		}
		return nil, goerr.Wrap(err, "failed to decode dataset")
	}
	ds.link()
	return &ds, nil
}

// link fills in the owning filing of each risk when the file omits it.
func (ds *Dataset) link() {
	for _, f := range ds.Filings {
		for _, r := range f.Risks {
			if r.AccessionNumber == "" {
				r.AccessionNumber = f.AccessionNumber
			}
		}
	}
}

// Validate checks every record and the references between them.
func (ds *Dataset) Validate() error {
	themes := make(map[types.ThemeID]struct{}, len(ds.Themes))
	for _, t := range ds.Themes {
		if err := t.Validate(); err != nil {
			return goerr.Wrap(err, "invalid theme in dataset")
		}
		themes[t.ID] = struct{}{}
	}

	companies := make(map[types.CIK]struct{}, len(ds.Companies))
	for _, c := range ds.Companies {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid company in dataset")
		}
		companies[c.CIK] = struct{}{}
	}

	riskIDs := make(map[string]struct{})
	for _, f := range ds.Filings {
		if err := f.Filing.Validate(); err != nil {
			return goerr.Wrap(err, "invalid filing in dataset")
		}
		if _, ok := companies[f.CIK]; !ok {
			return goerr.New("filing refers to unknown company",
				goerr.V("accession_number", f.AccessionNumber),
				goerr.V("cik", f.CIK))
		}
		for _, r := range f.Risks {
			if err := r.Validate(); err != nil {
				return goerr.Wrap(err, "invalid risk in dataset")
			}
			if r.AccessionNumber != f.AccessionNumber {
				return goerr.New("risk belongs to another filing",
					goerr.V("id", r.ID),
					goerr.V("accession_number", f.AccessionNumber))
			}
			if _, dup := riskIDs[r.ID]; dup {
				return goerr.New("duplicate risk id", goerr.V("id", r.ID))
			}
			riskIDs[r.ID] = struct{}{}
			if r.ThemeID != "" {
				if _, ok := themes[r.ThemeID]; !ok {
					return goerr.New("risk refers to unknown theme",
						goerr.V("id", r.ID),
						goerr.V("theme_id", r.ThemeID))
				}
			}
		}
	}

	for _, b := range ds.Benchmarks {
		if b.SICCode <= 0 {
			return goerr.New("benchmark requires a SIC code")
		}
		for _, id := range b.ThemeIDs {
			if _, ok := themes[id]; !ok {
				return goerr.New("benchmark refers to unknown theme",
					goerr.V("sic_code", b.SICCode),
					goerr.V("theme_id", id))
			}
		}
	}

	return nil
}
