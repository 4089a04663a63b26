package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/errutil"
)

var errRequestBody = errors.New("invalid request body")

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, usecase.ErrWatchNotFound),
		errors.Is(err, usecase.ErrThemeNotFound),
		errors.Is(err, usecase.ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPlanLimit),
		errors.Is(err, usecase.ErrPaidPlanRequired):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrNoSubscription),
		errors.Is(err, errRequestBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAlreadyWatching):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrBillingNotConfigured),
		errors.Is(err, usecase.ErrPlanPriceNotAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error response. Server errors are
// reported and their details hidden from the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}
