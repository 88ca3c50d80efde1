package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// expiryBuffer is subtracted from the server-reported token lifetime so a
// token is refreshed shortly before it actually expires.
const expiryBuffer = 60 * time.Second

// defaultExpiresIn is assumed when the token endpoint omits expires_in.
const defaultExpiresIn = 3600

// AuthManager drives the OAuth2/B2C authentication flow against the vendor's
// Azure AD B2C tenant and owns the token state for one user session.
//
// An AuthManager is not safe for concurrent use; token state is only mutated
// at the end of a successful exchange or refresh.
type AuthManager struct {
	// AuthURL is the base of the B2C oauth2/v2.0 endpoints. Overridable for
	// tests.
	AuthURL string

	httpClient *http.Client
	tokens     TokenState
	now        func() time.Time
}

// NewAuthManager creates an auth manager, optionally seeded with previously
// stored tokens (pass nil to start unauthenticated). The HTTP client gets a
// cookie jar because the headless login flow depends on the B2C session
// cookies set along the way.
func NewAuthManager(tokens *TokenState) *AuthManager {
	jar, _ := cookiejar.New(nil)
	m := &AuthManager{
		AuthURL:    DefaultAuthURL,
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
		now:        time.Now,
	}
	if tokens != nil {
		m.tokens = *tokens
	}
	return m
}

// Tokens returns a copy of the current token state, for persistence.
func (m *AuthManager) Tokens() *TokenState {
	t := m.tokens
	return &t
}

// IsAuthenticated reports whether a usable access token is held.
func (m *AuthManager) IsAuthenticated() bool {
	return m.tokens.Valid(m.now())
}

// LoginURL builds the authorization endpoint URL for the interactive login
// flow. No network call is made.
func (m *AuthManager) LoginURL() string {
	params := url.Values{
		"client_id":     {ClientID},
		"response_type": {"code"},
		"redirect_uri":  {RedirectURI},
		"scope":         {Scope},
		"response_mode": {"query"},
	}
	return m.AuthURL + "/authorize?" + params.Encode()
}

// AccessToken returns a valid access token, refreshing once if the held one
// is missing or expired.
func (m *AuthManager) AccessToken(ctx context.Context) (string, error) {
	if m.tokens.RefreshToken == "" {
		return "", &AuthError{Message: "no refresh token available; login first"}
	}
	if m.IsAuthenticated() {
		return m.tokens.AccessToken, nil
	}
	if err := m.Refresh(ctx); err != nil {
		return "", err
	}
	return m.tokens.AccessToken, nil
}

// Refresh obtains a new access token using the stored refresh token.
func (m *AuthManager) Refresh(ctx context.Context) error {
	if m.tokens.RefreshToken == "" {
		return &AuthError{Message: "no refresh token available; login first"}
	}
	log.Debug().Msg("Refreshing access token")
	payload := url.Values{
		"client_id":     {ClientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {m.tokens.RefreshToken},
		"scope":         {Scope},
		"client_info":   {"1"},
	}
	return m.requestTokens(ctx, payload)
}

// ExchangeCode trades an authorization code for tokens.
func (m *AuthManager) ExchangeCode(ctx context.Context, code string) error {
	log.Info().Str("endpoint", m.AuthURL+"/token").Msg("Exchanging authorization code for tokens")
	payload := url.Values{
		"client_id":    {ClientID},
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {RedirectURI},
		"scope":        {Scope},
	}
	return m.requestTokens(ctx, payload)
}

// requestTokens posts a form to the token endpoint and commits the returned
// tokens. On any failure the prior token state is left untouched.
func (m *AuthManager) requestTokens(ctx context.Context, payload url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.AuthURL+"/token",
		strings.NewReader(payload.Encode()))
	if err != nil {
		return &AuthError{Message: "failed to build token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return &AuthError{Message: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Message: "failed to read token response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Token endpoint rejected the request")
		return &AuthError{Message: "token endpoint rejected the request", Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &AuthError{Message: "failed to parse token response", Err: err}
	}
	if result.ExpiresIn == 0 {
		result.ExpiresIn = defaultExpiresIn
	}

	m.tokens = TokenState{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    float64(m.now().Add(time.Duration(result.ExpiresIn)*time.Second - expiryBuffer).Unix()),
	}
	log.Info().Msg("Token state updated")
	return nil
}
