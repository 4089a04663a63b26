package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/cli/config"
	httpctrl "github.com/vanerisk/vane/pkg/controller/http"
	"github.com/vanerisk/vane/pkg/service/dataset"
	"github.com/vanerisk/vane/pkg/service/worker"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/async"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(version string) *cli.Command {
	var addr string
	var baseURL string
	var datasetSource string
	var datasetInterval time.Duration
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var authCfg config.Supabase
	var stripeCfg config.Stripe
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("VANE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for the application used in billing redirects (e.g., https://your-domain.com)",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("VANE_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "dataset-source",
			Usage:       "Dataset to load on startup, a local YAML file or gs://bucket/object",
			Category:    "Dataset",
			Sources:     cli.EnvVars("VANE_DATASET_SOURCE"),
			Destination: &datasetSource,
		},
		&cli.DurationFlag{
			Name:        "dataset-refresh-interval",
			Usage:       "Reload the dataset source periodically (0 loads it once)",
			Category:    "Dataset",
			Sources:     cli.EnvVars("VANE_DATASET_REFRESH_INTERVAL"),
			Destination: &datasetInterval,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, stripeCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			sentryCfg.SetRelease(version)
			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			plans, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application config")
			}
			stripeCfg.ApplyPrices(plans)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			switch {
			case datasetSource != "" && datasetInterval > 0:
				refreshWorker := worker.NewDatasetRefreshWorker(repo, dataset.NewLoader(), datasetSource, datasetInterval)
				if err := refreshWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start dataset refresh worker")
				}
				defer refreshWorker.Stop()
			case datasetSource != "":
				ds, err := dataset.NewLoader().Load(ctx, datasetSource)
				if err != nil {
					return err
				}
				if _, err := dataset.Apply(ctx, repo, ds); err != nil {
					return goerr.Wrap(err, "failed to load dataset", goerr.V("source", datasetSource))
				}
			}

			authUC, authProvider, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthMode() {
				logger.Warn("Running in no-auth mode (development only)")
			}

			billingSvc, err := stripeCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure billing")
			}
			if billingSvc == nil {
				logger.Info("Stripe secret key not configured, billing endpoints are disabled")
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}

			ucOpts := []usecase.Option{
				usecase.WithPlanConfig(plans),
				usecase.WithAuth(authUC),
				usecase.WithNotifier(notifier),
				usecase.WithBaseURL(baseURL),
			}
			if authProvider != nil {
				ucOpts = append(ucOpts, usecase.WithAuthProvider(authProvider))
			}
			var httpOpts []httpctrl.Options
			if billingSvc != nil {
				ucOpts = append(ucOpts, usecase.WithBilling(billingSvc))
				httpOpts = append(httpOpts, httpctrl.WithBilling(billingSvc))
			}

			uc := usecase.New(repo, ucOpts...)

			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server",
					"addr", addr,
					"base_url", baseURL,
					"repository", repoCfg,
					"auth", authCfg,
					"stripe", stripeCfg,
					"slack", slackCfg,
					"sentry", sentryCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				// Notifications dispatched by webhook handlers
				if err := async.Wait(shutdownCtx); err != nil {
					logger.Warn("background tasks did not finish", "error", err.Error())
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
