package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/cli/config"
	"github.com/vanerisk/vane/pkg/service/dataset"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var source string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Dataset to load, a local YAML file or gs://bucket/object",
			Required:    true,
			Sources:     cli.EnvVars("VANE_SEED_SOURCE"),
			Destination: &source,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load themes, companies, filings, risks and benchmarks into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			ds, err := dataset.NewLoader().Load(ctx, source)
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			stats, err := dataset.Apply(ctx, repo, ds)
			if err != nil {
				return goerr.Wrap(err, "failed to seed repository", goerr.V("source", source))
			}

			logger.Info("Dataset loaded",
				"source", source,
				"themes", stats.Themes,
				"companies", stats.Companies,
				"filings", stats.Filings,
				"risks", stats.Risks,
				"benchmarks", stats.Benchmarks,
			)
			return nil
		},
	}
}
