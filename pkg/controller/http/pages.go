package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/usecase"
)

// sessionOf returns the request's session. Routes behind the session guards
// always have one.
func sessionOf(r *http.Request) *auth.Session {
	s, _ := auth.SessionFromContext(r.Context())
	return s
}

func pricingHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := uc.Pricing.Load(r.Context(), sessionOf(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

func dashboardHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := uc.Dashboard.ListWatches(r.Context(), sessionOf(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

func addWatchHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addWatchRequest
		if err := decodeRequest(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		watch, err := uc.Dashboard.AddWatch(r.Context(), sessionOf(r), types.CIK(req.CIK))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, watch)
	}
}

func removeWatchHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.WatchID(chi.URLParam(r, "id"))
		if err := uc.Dashboard.RemoveWatch(r.Context(), sessionOf(r), id); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func companyDetailHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.WatchID(chi.URLParam(r, "id"))
		page, err := uc.Dashboard.CompanyDetail(r.Context(), sessionOf(r), id)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

func themeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		themeID := types.ThemeID(chi.URLParam(r, "theme_id"))

		// Unparsable limits fall back to the default
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		page, err := uc.Theme.Explore(r.Context(), sessionOf(r), themeID, limit)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

func compareHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := parseCIKs(r.URL.Query().Get("companies"))
		page, err := uc.Compare.Matrix(r.Context(), sessionOf(r), selected)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

// parseCIKs splits a comma separated company list, skipping blanks
func parseCIKs(v string) []types.CIK {
	var ciks []types.CIK
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ciks = append(ciks, types.CIK(part))
		}
	}
	return ciks
}

func settingsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := uc.Settings.Load(r.Context(), sessionOf(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, page)
	}
}

func deleteAccountHandler(uc *usecase.UseCases, authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionOf(r)
		if err := uc.Settings.DeleteAccount(r.Context(), session); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		if authUC != nil && session.AccessToken != "" {
			_ = authUC.Logout(r.Context(), session.AccessToken)
		}
		clearSessionCookies(w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
