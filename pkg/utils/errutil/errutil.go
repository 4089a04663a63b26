package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/utils/logging"
	"github.com/vanerisk/vane/pkg/utils/safe"
)

// sentryContextKey names the Sentry context that carries goerr values
const sentryContextKey = "goerr"

// Handle logs the error with a message and reports it to Sentry when configured.
// The error is returned unchanged so callers can keep propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	report(ctx, err)
	return err
}

// ErrorResponse is the JSON body written by HandleHTTP
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleHTTP writes err as a JSON error response with statusCode.
// Server errors are logged, reported to Sentry and answered with the status
// text only. Client errors are logged at info level and expose the message.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		_ = Handle(ctx, err, "request failed")
		message = http.StatusText(statusCode)
	} else {
		logging.From(ctx).Info("request rejected", "status", statusCode, "error", err.Error())
	}

	WriteJSON(ctx, w, statusCode, ErrorResponse{Error: message})
}

// WriteJSON writes data as a JSON response
func WriteJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.EncodeJSON(ctx, w, data)
}

func report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if values := ge.Values(); len(values) > 0 {
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetContext(sentryContextKey, sentry.Context(values))
			})
		}
	}
	hub.CaptureException(err)
}
