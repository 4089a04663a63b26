package safe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/vanerisk/vane/pkg/utils/logging"
)

// Close closes c and logs a failure instead of returning it. Nil closers are ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("close failed", slog.Any("error", err))
	}
}

// Drain consumes the rest of r and closes it, so HTTP keep-alive connections can be reused.
func Drain(ctx context.Context, r io.ReadCloser) {
	if r == nil {
		return
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		logging.From(ctx).Warn("drain failed", slog.Any("error", err))
	}
	Close(ctx, r)
}

// EncodeJSON writes v as JSON to w. Encoding errors are logged because
// headers have usually been sent already.
func EncodeJSON(ctx context.Context, w io.Writer, v any) {
	if w == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("encode JSON failed", slog.Any("error", err))
	}
}
