package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/cli/config"
	"github.com/vanerisk/vane/pkg/repository/firestore"
	"github.com/vanerisk/vane/pkg/utils/logging"
	"github.com/vanerisk/vane/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := repoCfg.Flags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Preview changes without applying",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes or the PostgreSQL schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration", "repository", repoCfg, "dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendPostgres:
				return migratePostgres(ctx, &repoCfg, dryRun)
			default:
				return goerr.Wrap(config.ErrInvalidBackend, "migrate requires firestore or postgres backend",
					goerr.V(config.BackendKey, repoCfg.Backend()))
			}
		},
	}
}

const defaultFirestoreDatabase = "(default)"

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	if repoCfg.ProjectID() == "" {
		return goerr.Wrap(config.ErrMissingCredentials, "firestore-project-id is required")
	}

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

	databaseID := repoCfg.DatabaseID()
	if databaseID == "" {
		databaseID = defaultFirestoreDatabase
	}

	client, err := fireconf.New(ctx, repoCfg.ProjectID(), databaseID, indexConfig,
		fireconf.WithDryRun(dryRun),
		fireconf.WithLogger(logger),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
	} else {
		logger.Info("Applying migrations")
	}
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dry_run", dryRun))
	}
	if !dryRun {
		logger.Info("Migrations applied successfully")
	}
	return nil
}

func migratePostgres(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	if dryRun {
		logger.Info("Dry run mode - schema statements are idempotent, nothing to preview")
		return nil
	}

	repo, err := repoCfg.Postgres(ctx)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, repo)

	if err := repo.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to migrate postgres schema")
	}
	logger.Info("Schema migrated successfully")
	return nil
}

// getIndexConfig returns the Firestore composite indexes the queries rely on
func getIndexConfig(prefix string) *fireconf.Config {
	name := func(collection string) string {
		if prefix == "" {
			return collection
		}
		return prefix + "_" + collection
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: name(firestore.CollectionFilings),
				Indexes: []fireconf.Index{
					// ListByCompany: cik ASC, form_type ASC, filing_date DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "cik", Order: fireconf.OrderAscending},
							{Path: "form_type", Order: fireconf.OrderAscending},
							{Path: "filing_date", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: name(firestore.CollectionRisks),
				Indexes: []fireconf.Index{
					// ListByTheme: theme_id ASC, created_at DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "theme_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: name(firestore.CollectionWatches),
				Indexes: []fireconf.Index{
					// List: user_id ASC, created_at DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "user_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
