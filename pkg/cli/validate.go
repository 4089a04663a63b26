package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/cli/config"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/service/dataset"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// ErrValidationFailed is returned when the taxonomy or the catalog has issues
var ErrValidationFailed = goerr.New("validation found issues")

func cmdValidate() *cli.Command {
	var repoCfg config.Repository
	var source string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Check the catalog of a dataset file (local YAML or gs://bucket/object) instead of a repository",
			Destination: &source,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Check the taxonomy and, with a dataset or a persistent repository, catalog consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			report := &validationReport{w: w}

			report.section("Taxonomy", usecase.New(memory.New()).ValidateTaxonomy())

			repo, err := catalogRepository(ctx, &repoCfg, source)
			if err != nil {
				return err
			}
			if repo == nil {
				logging.Default().Info("No dataset or persistent repository given, skipping catalog check")
			} else {
				defer func() {
					if err := repo.Close(); err != nil {
						logging.Default().Error("failed to close repository", "error", err.Error())
					}
				}()

				result, err := usecase.New(repo).ValidateCatalog(ctx)
				if err != nil {
					return goerr.Wrap(err, "catalog consistency check failed")
				}
				report.section("Catalog", result)
			}

			if report.issues > 0 {
				return goerr.Wrap(ErrValidationFailed, "validation failed", goerr.V("issues", report.issues))
			}
			return nil
		},
	}
}

// catalogRepository returns the repository whose catalog is checked, or nil
// when there is none. A dataset source is loaded into a memory repository.
func catalogRepository(ctx context.Context, repoCfg *config.Repository, source string) (interfaces.Repository, error) {
	if source != "" {
		ds, err := dataset.NewLoader().Load(ctx, source)
		if err != nil {
			return nil, err
		}
		repo := memory.New()
		if _, err := dataset.Apply(ctx, repo, ds); err != nil {
			return nil, goerr.Wrap(err, "failed to load dataset", goerr.V("source", source))
		}
		return repo, nil
	}

	switch repoCfg.Backend() {
	case config.BackendFirestore, config.BackendPostgres:
		return repoCfg.Configure(ctx)
	default:
		return nil, nil
	}
}

type validationReport struct {
	w      io.Writer
	issues int
}

func (r *validationReport) section(name string, result *usecase.ValidationResult) {
	if !result.HasIssues() {
		_, _ = color.New(color.FgGreen).Fprintf(r.w, "✔ %s: OK\n", name)
		return
	}

	r.issues += len(result.Issues)
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(r.w, "✘ %s: %d issue(s)\n", name, len(result.Issues))
	kind := color.New(color.FgYellow)
	for _, issue := range result.Issues {
		line := issue.Message
		if issue.ThemeID != "" {
			line = fmt.Sprintf("%s: %s", issue.ThemeID, issue.Message)
		}
		_, _ = fmt.Fprintf(r.w, "  %s %s\n", kind.Sprintf("[%s]", issue.Kind), line)
	}
}
