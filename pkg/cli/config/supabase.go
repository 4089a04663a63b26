package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/service/supabase"
	"github.com/vanerisk/vane/pkg/usecase"
)

// Supabase holds the auth provider settings
type Supabase struct {
	url            string
	anonKey        string
	jwtSecret      string
	serviceRoleKey string
	noAuthUserID   string
}

func (x *Supabase) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "supabase-url",
			Usage:       "Supabase project URL",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VANE_SUPABASE_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "supabase-anon-key",
			Usage:       "Supabase anon (public) key",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VANE_SUPABASE_ANON_KEY"),
			Destination: &x.anonKey,
		},
		&cli.StringFlag{
			Name:        "supabase-jwt-secret",
			Usage:       "Supabase JWT secret for verifying access tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VANE_SUPABASE_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
		&cli.StringFlag{
			Name:        "supabase-service-role-key",
			Usage:       "Supabase service role key (for account deletion)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VANE_SUPABASE_SERVICE_ROLE_KEY"),
			Destination: &x.serviceRoleKey,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("VANE_NO_AUTH"),
			Destination: &x.noAuthUserID,
		},
	}
}

func (x Supabase) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.Int("anon-key.len", len(x.anonKey)),
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
		slog.Int("service-role-key.len", len(x.serviceRoleKey)),
		slog.String("no-auth", x.noAuthUserID),
	)
}

// IsNoAuthMode returns true when authentication is skipped
func (x *Supabase) IsNoAuthMode() bool {
	return x.noAuthUserID != ""
}

// IsConfigured returns true when the auth provider can verify tokens
func (x *Supabase) IsConfigured() bool {
	return x.url != "" && x.anonKey != "" && x.jwtSecret != ""
}

// Configure returns the auth use case and, when configured, the provider
// client used for account deletion. No-auth mode takes precedence.
func (x *Supabase) Configure() (usecase.AuthUseCaseInterface, interfaces.AuthProvider, error) {
	if x.IsNoAuthMode() {
		userID := types.UserID(x.noAuthUserID)
		return usecase.NewNoAuthnUseCase(userID, userID.String()+"@localhost"), nil, nil
	}

	if !x.IsConfigured() {
		return nil, nil, goerr.Wrap(ErrMissingCredentials,
			"supabase-url, supabase-anon-key and supabase-jwt-secret are required unless --no-auth is set")
	}

	var opts []supabase.Option
	if x.serviceRoleKey != "" {
		opts = append(opts, supabase.WithServiceRoleKey(x.serviceRoleKey))
	}
	provider, err := supabase.New(x.url, x.anonKey, x.jwtSecret, opts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create supabase client")
	}

	return usecase.NewAuthUseCase(provider), provider, nil
}
