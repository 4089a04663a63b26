package notify

import (
	"context"
	"log/slog"

	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// logNotifier writes notifications to the request logger. It stands in when
// no Slack channel is configured.
type logNotifier struct{}

var _ interfaces.Notifier = logNotifier{}

// NewLog returns a notifier that only logs
func NewLog() interfaces.Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, title string, fields map[string]string) error {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.String(k, v))
	}
	logging.From(ctx).Info(title, attrs...)
	return nil
}
