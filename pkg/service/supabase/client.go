package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
	"github.com/vanerisk/vane/pkg/utils/safe"
)

const (
	// Audience is the aud claim carried by access tokens of signed-in users
	Audience = "authenticated"

	acceptableSkew = 10 * time.Second
)

// ErrInvalidToken is returned when an access token fails verification
var ErrInvalidToken = goerr.New("invalid access token")

// client implements interfaces.AuthProvider against the GoTrue REST API
type client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	jwtSecret      []byte
	httpClient     *http.Client
}

var _ interfaces.AuthProvider = (*client)(nil)

// Option is a functional option for the auth client
type Option func(*client)

// WithHTTPClient replaces the HTTP client used for REST calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithServiceRoleKey enables admin operations such as user deletion
func WithServiceRoleKey(key string) Option {
	return func(c *client) {
		c.serviceRoleKey = key
	}
}

// New creates an auth provider client for the project at baseURL
func New(baseURL, anonKey, jwtSecret string, opts ...Option) (interfaces.AuthProvider, error) {
	if baseURL == "" {
		return nil, goerr.New("Supabase URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid Supabase URL", goerr.V("url", baseURL))
	}
	if anonKey == "" {
		return nil, goerr.New("Supabase anon key is required")
	}
	if jwtSecret == "" {
		return nil, goerr.New("Supabase JWT secret is required")
	}

	c := &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		jwtSecret:  []byte(jwtSecret),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// VerifyAccessToken checks the HS256 signature, expiry and audience of an
// access token and decodes the session it represents
func (c *client) VerifyAccessToken(ctx context.Context, accessToken string) (*auth.Session, error) {
	token, err := jwt.Parse([]byte(accessToken),
		jwt.WithKey(jwa.HS256, c.jwtSecret),
		jwt.WithValidate(true),
		jwt.WithAudience(Audience),
		jwt.WithAcceptableSkew(acceptableSkew),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token verification failed", goerr.V("cause", err.Error()))
	}

	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrInvalidToken, "sub claim not found in token")
	}

	var email string
	if v, ok := token.Get("email"); ok {
		email, _ = v.(string)
	}

	return &auth.Session{
		UserID:      types.UserID(token.Subject()),
		Email:       email,
		ExpiresAt:   token.Expiration(),
		AccessToken: accessToken,
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// ExchangeCode trades a PKCE authorization code for a session
func (c *client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Session, error) {
	if code == "" {
		return nil, goerr.New("authorization code is required")
	}

	body, err := json.Marshal(map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=pkce", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to make token request")
	}
	defer safe.Drain(ctx, resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return nil, goerr.New("code exchange rejected",
			goerr.V("status", resp.StatusCode),
			goerr.V("error", e.Error),
			goerr.V("description", firstNonEmpty(e.ErrorDescription, e.Message)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, goerr.Wrap(err, "failed to parse token response")
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return nil, goerr.New("token response has no session")
	}

	session := &auth.Session{
		UserID:       types.UserID(tr.User.ID),
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
	switch {
	case tr.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(tr.ExpiresAt, 0).UTC()
	case tr.ExpiresIn > 0:
		session.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second).UTC()
	}
	return session, nil
}

// DeleteUser removes the user with the admin API. A user that is already
// gone is not an error.
func (c *client) DeleteUser(ctx context.Context, userID types.UserID) error {
	if c.serviceRoleKey == "" {
		return goerr.New("service role key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/auth/v1/admin/users/"+url.PathEscape(userID.String()), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call admin API", goerr.V("userID", userID))
	}
	defer safe.Drain(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return goerr.New("admin API returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("userID", userID))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
