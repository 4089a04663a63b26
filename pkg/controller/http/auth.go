package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/errutil"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

const (
	accessTokenCookie  = "sb-access-token"
	refreshTokenCookie = "sb-refresh-token"
	codeVerifierCookie = "sb-code-verifier"

	defaultNextPath = "/risks"
)

type errorResponse = errutil.ErrorResponse

type successResponse struct {
	Success bool `json:"success"`
}

type signInPage struct {
	Error      string `json:"error,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, c *http.Cookie) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if c != nil {
		cookie.Expires = c.Expires
		cookie.MaxAge = c.MaxAge
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		setCookie(w, r, name, "", &http.Cookie{MaxAge: -1})
	}
}

// localPath keeps redirects on this site
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return defaultNextPath
	}
	return next
}

// authCallbackHandler exchanges the authorization code for a session and
// stores the tokens in cookies
func authCallbackHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Redirect(w, r, "/sign-in?error=no_code", http.StatusSeeOther)
			return
		}

		next := defaultNextPath
		if v := r.URL.Query().Get("next"); v != "" {
			next = localPath(v)
		}

		var verifier string
		if c, err := r.Cookie(codeVerifierCookie); err == nil {
			verifier = c.Value
		}

		session, err := authUC.HandleCallback(r.Context(), code, verifier)
		if err != nil {
			logging.From(r.Context()).Warn("failed to exchange authorization code", "error", err.Error())
			http.Redirect(w, r, "/sign-in?error=auth_failed", http.StatusSeeOther)
			return
		}

		if session.AccessToken != "" {
			setCookie(w, r, accessTokenCookie, session.AccessToken, &http.Cookie{Expires: session.ExpiresAt})
		}
		if session.RefreshToken != "" {
			setCookie(w, r, refreshTokenCookie, session.RefreshToken, nil)
		}
		setCookie(w, r, codeVerifierCookie, "", &http.Cookie{MaxAge: -1})

		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

// signOutHandler forgets the access token and clears the session cookies
func signOutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := accessTokenFrom(r); token != "" && authUC != nil {
			if err := authUC.Logout(r.Context(), token); err != nil {
				writeError(r.Context(), w, err)
				return
			}
		}

		clearSessionCookies(w, r)
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// signInHandler returns the sign-in page data, or sends signed-in users to
// the dashboard
func signInHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, defaultNextPath, http.StatusSeeOther)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, signInPage{
		Error:      r.URL.Query().Get("error"),
		RedirectTo: r.URL.Query().Get("redirectTo"),
	})
}

// writeJSON writes a JSON response
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	errutil.WriteJSON(ctx, w, statusCode, data)
}
