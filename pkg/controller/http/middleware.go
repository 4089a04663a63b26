package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

// sessionMiddleware attaches the session of a valid access token to the
// request context. Requests without a valid token continue anonymously.
func sessionMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := accessTokenFrom(r)
			if token == "" && !authUC.IsNoAuthn() {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authUC.ValidateToken(r.Context(), token)
			if err != nil {
				logging.From(r.Context()).Debug("ignoring invalid access token", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", session.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessTokenFrom reads the access token cookie, falling back to a bearer
// Authorization header
func accessTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// requirePageSession sends anonymous visitors of a page to the sign-in page
func requirePageSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/sign-in?redirectTo="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPISession rejects anonymous API calls with 401
func requireAPISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFromContext(r.Context()); !ok {
			writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
