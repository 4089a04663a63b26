package notify

import (
	"context"
	"fmt"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
)

// maxSectionFields is Slack's limit of fields in one section block
const maxSectionFields = 10

// slackNotifier posts notifications to a single Slack channel
type slackNotifier struct {
	api     *slack.Client
	channel string
}

var _ interfaces.Notifier = (*slackNotifier)(nil)

// Option is a functional option for the Slack notifier
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL overrides the Slack Web API base URL
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// NewSlack creates a notifier that posts to channel with a bot token
func NewSlack(token, channel string, opts ...Option) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var slackOpts []slack.Option
	if o.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &slackNotifier{
		api:     slack.New(token, slackOpts...),
		channel: channel,
	}, nil
}

// Notify posts title as a header and fields as a key/value section, keys sorted
func (n *slackNotifier) Notify(ctx context.Context, title string, fields map[string]string) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for start := 0; start < len(keys); start += maxSectionFields {
		end := min(start+maxSectionFields, len(keys))
		var objs []*slack.TextBlockObject
		for _, k := range keys[start:end] {
			objs = append(objs, slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s*\n%s", k, fields[k]), false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, objs, nil))
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(title, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", n.channel),
			goerr.V("title", title))
	}
	return nil
}
