package supabase_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/service/supabase"
)

const testJWTSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret, sub, aud string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewBuilder().
		Subject(sub).
		Audience([]string{aud}).
		IssuedAt(time.Now()).
		Expiration(exp).
		Claim("email", sub+"@example.com").
		Build()
	gt.NoError(t, err).Required()

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(secret)))
	gt.NoError(t, err).Required()
	return string(signed)
}

func TestNewValidation(t *testing.T) {
	_, err := supabase.New("", "anon", testJWTSecret)
	gt.Value(t, err).NotNil()
	_, err = supabase.New("https://project.supabase.co", "", testJWTSecret)
	gt.Value(t, err).NotNil()
	_, err = supabase.New("https://project.supabase.co", "anon", "")
	gt.Value(t, err).NotNil()
}

func TestVerifyAccessToken(t *testing.T) {
	provider, err := supabase.New("https://project.supabase.co", "anon", testJWTSecret)
	gt.NoError(t, err).Required()

	t.Run("valid token", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := signToken(t, testJWTSecret, "user-1", supabase.Audience, exp)

		session, err := provider.VerifyAccessToken(t.Context(), token)
		gt.NoError(t, err).Required()
		gt.Value(t, session.UserID).Equal(types.UserID("user-1"))
		gt.Value(t, session.Email).Equal("user-1@example.com")
		gt.Bool(t, session.ExpiresAt.Equal(exp)).True()
		gt.Value(t, session.AccessToken).Equal(token)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testJWTSecret, "user-1", supabase.Audience, time.Now().Add(-time.Hour))
		_, err := provider.VerifyAccessToken(t.Context(), token)
		gt.Error(t, err).Is(supabase.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token := signToken(t, testJWTSecret, "user-1", "anon", time.Now().Add(time.Hour))
		_, err := provider.VerifyAccessToken(t.Context(), token)
		gt.Error(t, err).Is(supabase.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "another-secret-that-is-also-long-enough-123", "user-1", supabase.Audience, time.Now().Add(time.Hour))
		_, err := provider.VerifyAccessToken(t.Context(), token)
		gt.Error(t, err).Is(supabase.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := provider.VerifyAccessToken(t.Context(), "not-a-jwt")
		gt.Error(t, err).Is(supabase.ErrInvalidToken)
	})
}

func TestExchangeCode(t *testing.T) {
	var gotBody map[string]string
	var gotAPIKey, gotGrant string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAPIKey = r.Header.Get("apikey")
		gotGrant = r.URL.Query().Get("grant_type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		if gotBody["auth_code"] == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"access_token": "at-123",
			"refresh_token": "rt-456",
			"expires_in": 3600,
			"expires_at": 1900000000,
			"user": {"id": "user-9", "email": "nine@example.com"}
		}`))
	}))
	defer srv.Close()

	provider, err := supabase.New(srv.URL+"/", "anon-key", testJWTSecret)
	gt.NoError(t, err).Required()

	session, err := provider.ExchangeCode(t.Context(), "good", "verifier")
	gt.NoError(t, err).Required()
	gt.Value(t, gotAPIKey).Equal("anon-key")
	gt.Value(t, gotGrant).Equal("pkce")
	gt.Value(t, gotBody["auth_code"]).Equal("good")
	gt.Value(t, gotBody["code_verifier"]).Equal("verifier")
	gt.Value(t, session.UserID).Equal(types.UserID("user-9"))
	gt.Value(t, session.Email).Equal("nine@example.com")
	gt.Value(t, session.AccessToken).Equal("at-123")
	gt.Value(t, session.RefreshToken).Equal("rt-456")
	gt.Value(t, session.ExpiresAt.Unix()).Equal(int64(1900000000))

	_, err = provider.ExchangeCode(t.Context(), "bad", "verifier")
	gt.Value(t, err).NotNil()

	_, err = provider.ExchangeCode(t.Context(), "", "verifier")
	gt.Value(t, err).NotNil()
}

func TestDeleteUser(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/auth/v1/admin/users/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Run("requires service role key", func(t *testing.T) {
		provider, err := supabase.New(srv.URL, "anon-key", testJWTSecret)
		gt.NoError(t, err).Required()
		gt.Value(t, provider.DeleteUser(t.Context(), "user-1")).NotNil()
	})

	provider, err := supabase.New(srv.URL, "anon-key", testJWTSecret, supabase.WithServiceRoleKey("service-key"))
	gt.NoError(t, err).Required()

	t.Run("deletes", func(t *testing.T) {
		gt.NoError(t, provider.DeleteUser(t.Context(), "user-1"))
		gt.Value(t, gotPath).Equal("/auth/v1/admin/users/user-1")
		gt.Value(t, gotAuth).Equal("Bearer service-key")
	})

	t.Run("server error", func(t *testing.T) {
		gt.Value(t, provider.DeleteUser(t.Context(), "broken")).NotNil()
	})
}
