package cli

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestGetIndexConfig(t *testing.T) {
	t.Run("prefix is applied to every collection", func(t *testing.T) {
		cfg := getIndexConfig("vane")
		gt.NoError(t, cfg.Validate())
		gt.A(t, cfg.Collections).Length(3)

		names := make([]string, 0, len(cfg.Collections))
		for _, col := range cfg.Collections {
			names = append(names, col.Name)
			gt.A(t, col.Indexes).Longer(0)
		}
		gt.V(t, names).Equal([]string{"vane_filings", "vane_risks", "vane_watches"})
	})

	t.Run("empty prefix keeps collection names", func(t *testing.T) {
		cfg := getIndexConfig("")
		gt.V(t, cfg.Collections[0].Name).Equal("filings")
	})

	t.Run("filings index sorts newest first", func(t *testing.T) {
		fields := getIndexConfig("").Collections[0].Indexes[0].Fields
		gt.A(t, fields).Length(3)
		gt.V(t, fields[2].Path).Equal("filing_date")
		gt.V(t, fields[2].Order).Equal(fireconf.OrderDescending)
	})
}
