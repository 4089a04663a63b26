package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/service/notify"
)

// Slack holds the operations notification settings
type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for operations notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("VANE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for operations notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("VANE_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured returns true when notifications go to Slack
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure returns a Slack notifier, or a notifier that only logs when no
// bot token is set
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return notify.NewLog(), nil
	}
	if x.channel == "" {
		return nil, goerr.Wrap(ErrMissingCredentials, "slack-channel is required with slack-bot-token")
	}

	n, err := notify.NewSlack(x.botToken, x.channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return n, nil
}
