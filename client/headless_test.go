package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPageHTML = `<!DOCTYPE html>
<html><head><script>
var SETTINGS = {"csrf":"csrf-token-123","transId":"StateProperties=trans-456","hosts":{}};
</script></head>
<body>
<form id="localAccountForm" method="POST">
<input type="hidden" name="request_type" value="" />
<input type="hidden" name="signInName" value="" />
<input type="email" name="email" value="" />
<input type="password" name="password" value="" />
</form>
</body></html>`

// loginServer fakes the B2C tenant. The oauth2 endpoints live under
// /oauth2/v2.0 like on the real tenant, so parseLoginPage derives the
// SelfAsserted base from the page URL instead of falling back to the
// production host. The first GET of the authorize endpoint serves the login
// page, later GETs start the redirect chain, which ends in a Location
// carrying the authorization code after two hops.
func loginServer(t *testing.T) *httptest.Server {
	t.Helper()
	authorizeCalls := 0
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/oauth2/v2.0/authorize", func(w http.ResponseWriter, r *http.Request) {
		authorizeCalls++
		if authorizeCalls == 1 {
			fmt.Fprint(w, loginPageHTML)
			return
		}
		http.Redirect(w, r, server.URL+"/hop1", http.StatusFound)
	})
	mux.HandleFunc("/hop1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/hop2", http.StatusFound)
	})
	mux.HandleFunc("/hop2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", RedirectURI+"?code=XYZ123")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/SelfAsserted", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csrf-token-123", r.Header.Get("X-CSRF-TOKEN"))
		assert.Equal(t, "StateProperties=trans-456", r.URL.Query().Get("tx"))
		assert.Equal(t, PolicyName, r.URL.Query().Get("p"))
		r.ParseForm()
		assert.Equal(t, "RESPONSE", r.FormValue("request_type"))
		assert.Equal(t, "user@example.com", r.FormValue("email"))
		assert.Equal(t, "hunter2", r.FormValue("password"))
		// Hidden fields from the form must be carried over.
		assert.Equal(t, "", r.FormValue("signInName"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"200"}`)
	})
	mux.HandleFunc("/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "XYZ123", r.FormValue("code"))
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "headless-access",
			"refresh_token": "headless-refresh",
			"expires_in":    3600,
		})
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHeadlessLogin_Success(t *testing.T) {
	server := loginServer(t)

	auth := NewAuthManager(nil)
	auth.AuthURL = server.URL + "/oauth2/v2.0"

	require.NoError(t, auth.HeadlessLogin(context.Background(), "user@example.com", "hunter2"))
	assert.Equal(t, "headless-access", auth.Tokens().AccessToken)
	assert.Equal(t, "headless-refresh", auth.Tokens().RefreshToken)
	assert.True(t, auth.IsAuthenticated())
}

func TestHeadlessLogin_MissingSettings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>no settings here</body></html>")
	}))
	defer server.Close()

	auth := NewAuthManager(nil)
	auth.AuthURL = server.URL + "/oauth2/v2.0"

	err := auth.HeadlessLogin(context.Background(), "a@b.c", "pw")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "SETTINGS")
}

func TestHeadlessLogin_RejectedCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2.0/authorize", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPageHTML)
	})
	mux.HandleFunc("/SelfAsserted", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"400","message":"Your password is incorrect."}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	auth := NewAuthManager(nil)
	auth.AuthURL = server.URL + "/oauth2/v2.0"

	err := auth.HeadlessLogin(context.Background(), "a@b.c", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "Your password is incorrect.")
}

func TestHeadlessLogin_RedirectChainExhausted(t *testing.T) {
	authorizeCalls := 0
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/oauth2/v2.0/authorize", func(w http.ResponseWriter, r *http.Request) {
		authorizeCalls++
		if authorizeCalls == 1 {
			fmt.Fprint(w, loginPageHTML)
			return
		}
		// Loop forever without ever producing a code.
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	})
	mux.HandleFunc("/SelfAsserted", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"200"}`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	auth := NewAuthManager(nil)
	auth.AuthURL = server.URL + "/oauth2/v2.0"

	err := auth.HeadlessLogin(context.Background(), "a@b.c", "pw")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "redirect chain exhausted")
}

func TestHeadlessLogin_ErrorRedirectIsAuthError(t *testing.T) {
	authorizeCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2.0/authorize", func(w http.ResponseWriter, r *http.Request) {
		authorizeCalls++
		if authorizeCalls == 1 {
			fmt.Fprint(w, loginPageHTML)
			return
		}
		// The tenant denies the request: the terminal redirect targets the
		// app's URI scheme but carries an error instead of a code.
		w.Header().Set("Location", RedirectURI+"?error=access_denied")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/SelfAsserted", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"200"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	auth := NewAuthManager(nil)
	auth.AuthURL = server.URL + "/oauth2/v2.0"

	err := auth.HeadlessLogin(context.Background(), "a@b.c", "pw")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "authorization code")
	assert.False(t, auth.IsAuthenticated())
}

func TestParseLoginPage(t *testing.T) {
	finalURL := "https://tenant.b2clogin.com/tenant.onmicrosoft.com/" + PolicyName + "/oauth2/v2.0/authorize?p=x"

	session, err := parseLoginPage(loginPageHTML, finalURL)
	require.NoError(t, err)
	assert.Equal(t, "csrf-token-123", session.csrf)
	assert.Equal(t, "StateProperties=trans-456", session.transID)
	assert.Equal(t, "https://tenant.b2clogin.com/tenant.onmicrosoft.com/"+PolicyName, session.baseURL)
	assert.True(t, session.fields.Has("signInName"))
}

func TestParseLoginPage_MalformedSettings(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"invalid JSON", `<script>var SETTINGS = {"csrf": };</script>`},
		{"missing csrf", `<script>var SETTINGS = {"transId":"t"};</script>`},
		{"missing transId", `<script>var SETTINGS = {"csrf":"c"};</script>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLoginPage(tt.html, "https://example.com")
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
		})
	}
}
