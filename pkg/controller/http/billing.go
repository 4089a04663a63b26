package http

import (
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/errutil"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	maxWebhookBodySize    = 512 * 1024
)

type webhookResponse struct {
	Received bool `json:"received"`
}

func checkoutHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := decodeRequest(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		url, err := uc.Billing.CreateCheckout(r.Context(), sessionOf(r), types.PlanID(req.Plan))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, urlResponse{URL: url})
	}
}

func portalHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := uc.Billing.CreatePortal(r.Context(), sessionOf(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, urlResponse{URL: url})
	}
}

// webhookHandler verifies and applies billing provider events
func webhookHandler(uc *usecase.UseCases, billing interfaces.BillingService, m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		signature := r.Header.Get(stripeSignatureHeader)
		if signature == "" {
			m.billingEvent("", "invalid")
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Missing Stripe signature"})
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
		if err != nil {
			m.billingEvent("", "invalid")
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})
			return
		}

		event, err := billing.ParseWebhook(payload, signature)
		if err != nil {
			logging.From(ctx).Warn("webhook signature verification failed", "error", err.Error())
			m.billingEvent("", "invalid")
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Invalid signature"})
			return
		}

		if err := uc.Billing.HandleEvent(ctx, event); err != nil {
			m.billingEvent(string(event.Type), "error")
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to process webhook",
				goerr.V("event_id", event.ID),
				goerr.V("event_type", event.Type)), http.StatusInternalServerError)
			return
		}

		m.billingEvent(string(event.Type), "ok")
		writeJSON(ctx, w, http.StatusOK, webhookResponse{Received: true})
	}
}
