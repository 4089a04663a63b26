package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	domainConfig "github.com/vanerisk/vane/pkg/domain/model/config"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// AppConfig holds the path of the application configuration file
type AppConfig struct {
	path string
}

// appFile is the TOML layout of the application configuration
type appFile struct {
	CompareRequiresPaid bool         `toml:"compare_requires_paid"`
	Plans               []planConfig `toml:"plan"`
}

type planConfig struct {
	ID           string   `toml:"id"`
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	PriceID      string   `toml:"price_id"`
	MonthlyPrice int      `toml:"monthly_price"`
	MaxWatches   int      `toml:"max_watches"`
	Features     []string `toml:"features"`
}

func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the application configuration file (TOML). Built-in plans are used when omitted",
			Sources:     cli.EnvVars("VANE_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x AppConfig) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the plan configuration, or returns the built-in default
// when no file is given
func (x *AppConfig) Configure() (*domainConfig.PlanConfig, error) {
	if x.path == "" {
		return domainConfig.DefaultPlanConfig(), nil
	}
	return LoadPlanConfig(x.path)
}

// LoadPlanConfig loads and validates the plan configuration from a TOML file
func LoadPlanConfig(path string) (*domainConfig.PlanConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrConfigNotFound, "cannot load config", goerr.V(ConfigPathKey, path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file appFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	cfg := file.toDomain()
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "config validation failed",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	return cfg, nil
}

func (f *appFile) toDomain() *domainConfig.PlanConfig {
	plans := make([]domainConfig.Plan, len(f.Plans))
	for i, p := range f.Plans {
		plans[i] = domainConfig.Plan{
			ID:           types.PlanID(p.ID),
			Name:         p.Name,
			Description:  p.Description,
			PriceID:      p.PriceID,
			MonthlyPrice: p.MonthlyPrice,
			MaxWatches:   p.MaxWatches,
			Features:     p.Features,
		}
	}

	return &domainConfig.PlanConfig{
		Plans:               plans,
		CompareRequiresPaid: f.CompareRequiresPaid,
	}
}
