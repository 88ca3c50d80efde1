package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxRedirectHops bounds the manual redirect-following loop at the end of
// the headless login flow.
const maxRedirectHops = 10

var (
	settingsRegexp = regexp.MustCompile(`(?s)SETTINGS\s*=\s*(\{.*?\});`)
	inputRegexp    = regexp.MustCompile(`(?is)<input\b[^>]*>`)
	nameRegexp     = regexp.MustCompile(`(?i)\bname\s*=\s*"([^"]*)"`)
	valueRegexp    = regexp.MustCompile(`(?i)\bvalue\s*=\s*"([^"]*)"`)
)

// loginSession carries the artifacts extracted from the B2C login page; it
// lives only for the duration of one HeadlessLogin call.
type loginSession struct {
	csrf    string
	transID string
	baseURL string
	fields  url.Values
}

// HeadlessLogin performs the full login flow without a browser: it fetches
// the B2C login page, submits the credentials directly to the self-asserted
// endpoint, and follows the resulting redirect chain until the authorization
// code appears, which it then exchanges for tokens.
//
// This flow talks to an endpoint meant for the vendor's login page, so it is
// the most fragile of the login variants.
func (m *AuthManager) HeadlessLogin(ctx context.Context, email, password string) error {
	startURL := m.LoginURL()
	log.Debug().Str("url", startURL).Msg("Fetching login page")

	html, finalURL, err := m.fetchLoginPage(ctx, startURL)
	if err != nil {
		return err
	}

	session, err := parseLoginPage(html, finalURL)
	if err != nil {
		return err
	}

	if err := m.submitCredentials(ctx, session, finalURL, email, password); err != nil {
		return err
	}

	log.Debug().Msg("Credentials accepted; following redirects to capture the code")
	code, err := m.captureAuthCode(ctx, startURL)
	if err != nil {
		return err
	}

	return m.ExchangeCode(ctx, code)
}

// fetchLoginPage GETs the authorize URL, following ordinary HTTP redirects,
// and returns the page body plus the final resolved URL.
func (m *AuthManager) fetchLoginPage(ctx context.Context, startURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, startURL, nil)
	if err != nil {
		return "", "", &AuthError{Message: "failed to build login page request", Err: err}
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", "", &AuthError{Message: "failed to fetch login page", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &AuthError{Message: "failed to read login page", Err: err}
	}
	return string(body), resp.Request.URL.String(), nil
}

// parseLoginPage extracts the embedded SETTINGS blob and the hidden form
// fields from the login page HTML.
func parseLoginPage(html, finalURL string) (*loginSession, error) {
	match := settingsRegexp.FindStringSubmatch(html)
	if match == nil {
		return nil, &AuthError{Message: "could not find SETTINGS in login page"}
	}

	var settings struct {
		Csrf    string `json:"csrf"`
		TransID string `json:"transId"`
	}
	if err := json.Unmarshal([]byte(match[1]), &settings); err != nil {
		return nil, &AuthError{Message: "failed to parse SETTINGS JSON from login page", Err: err}
	}
	if settings.Csrf == "" || settings.TransID == "" {
		return nil, &AuthError{Message: "missing csrf or transId in login page SETTINGS"}
	}

	// The self-asserted endpoint lives at the origin that served the login
	// page, before the oauth2 path segment.
	baseURL := "https://gdhvb2c.b2clogin.com/gdhvb2c.onmicrosoft.com/" + PolicyName
	if idx := strings.Index(finalURL, "/oauth2/v2.0/authorize"); idx != -1 {
		baseURL = finalURL[:idx]
	}

	// Collect the hidden inputs of the login form so nothing the server
	// pre-filled gets lost on submission.
	fields := url.Values{}
	for _, tag := range inputRegexp.FindAllString(html, -1) {
		name := nameRegexp.FindStringSubmatch(tag)
		if name == nil || name[1] == "" {
			continue
		}
		value := ""
		if v := valueRegexp.FindStringSubmatch(tag); v != nil {
			value = v[1]
		}
		fields.Set(name[1], value)
	}

	return &loginSession{
		csrf:    settings.Csrf,
		transID: settings.TransID,
		baseURL: baseURL,
		fields:  fields,
	}, nil
}

// submitCredentials POSTs the credentials to the self-asserted endpoint and
// checks the JSON status the server reports.
func (m *AuthManager) submitCredentials(ctx context.Context, session *loginSession, referer, email, password string) error {
	params := url.Values{
		"tx": {session.transID},
		"p":  {PolicyName},
	}
	postURL := session.baseURL + "/SelfAsserted?" + params.Encode()

	form := session.fields
	form.Set("request_type", "RESPONSE")
	form.Set("email", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Message: "failed to build credential submission request", Err: err}
	}
	req.Header.Set("X-CSRF-TOKEN", session.csrf)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Origin", "https://gdhvb2c.b2clogin.com")
	req.Header.Set("Referer", referer)

	log.Debug().Str("url", postURL).Msg("Submitting credentials")
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return &AuthError{Message: "credential submission failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Message: "failed to read credential submission response", Err: err}
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		preview := string(body)
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return &AuthError{Message: "login response was not valid JSON: " + preview, Err: err}
	}
	if result.Status != "200" {
		reason := result.Message
		if reason == "" {
			reason = result.Reason
		}
		if reason == "" {
			reason = "unknown reason"
		}
		return &AuthError{Message: fmt.Sprintf("login failed: %s - %s", result.Status, reason)}
	}
	return nil
}

// captureAuthCode re-requests the authorize URL and follows redirects by
// hand. The terminal redirect targets the app's custom URI scheme, which a
// standard HTTP client refuses to follow, so each hop is inspected for the
// code before being requested.
func (m *AuthManager) captureAuthCode(ctx context.Context, startURL string) (string, error) {
	noRedirect := &http.Client{
		Timeout: m.httpClient.Timeout,
		Jar:     m.httpClient.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	currentURL := startURL
	for hop := 0; hop < maxRedirectHops; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, currentURL, nil)
		if err != nil {
			return "", &AuthError{Message: "failed to build redirect request", Err: err}
		}
		resp, err := noRedirect.Do(req)
		if err != nil {
			return "", &AuthError{Message: "redirect request failed", Err: err}
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		default:
			return "", &AuthError{Message: fmt.Sprintf("redirect chain ended with status %d without a code", resp.StatusCode)}
		}

		location := resp.Header.Get("Location")
		if location == "" {
			return "", &AuthError{Message: "redirect response carried no Location header"}
		}

		if strings.HasPrefix(location, RedirectURI) || strings.Contains(location, "code=") {
			log.Debug().Msg("Found redirect targeting the app's URI scheme")
			code, err := ExtractAuthCode(location)
			if err != nil {
				return "", &AuthError{Message: "no authorization code in the final redirect", Err: err}
			}
			return code, nil
		}

		// Relative redirects are resolved against the current URL.
		next, err := req.URL.Parse(location)
		if err != nil {
			return "", &AuthError{Message: "invalid redirect location", Err: err}
		}
		currentURL = next.String()
	}
	return "", &AuthError{Message: fmt.Sprintf("redirect chain exhausted after %d hops without a code", maxRedirectHops)}
}
