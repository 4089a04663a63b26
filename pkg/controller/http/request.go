package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
)

const maxRequestBodySize = 64 * 1024

var validate = validator.New(validator.WithRequiredStructEnabled())

type addWatchRequest struct {
	CIK string `json:"cik" validate:"required,numeric,max=10"`
}

type checkoutRequest struct {
	Plan string `json:"plan" validate:"omitempty,oneof=free individual professional enterprise"`
}

type urlResponse struct {
	URL string `json:"url"`
}

// decodeRequest reads a JSON body into v and validates it. An empty body
// leaves v at its zero value before validation.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(errRequestBody, "failed to decode request body", goerr.V("cause", err.Error()))
	}
	if err := validate.Struct(v); err != nil {
		return goerr.Wrap(err, "request validation failed")
	}
	return nil
}
