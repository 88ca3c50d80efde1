package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is the authenticated gateway to the Dimplex Control data API. It
// shares one AuthManager with the caller, so a token refreshed here is
// visible everywhere.
type Client struct {
	// BaseURL of the mobile API. Overridable for tests.
	BaseURL string

	Auth       *AuthManager
	httpClient *http.Client
}

// New creates an API client on top of an auth manager.
func New(auth *AuthManager) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Auth:       auth,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Request performs an authenticated API call and returns the raw response
// body. A valid access token is obtained first, which may trigger a token
// refresh. An empty response body is a valid empty result.
func (c *Client) Request(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setAPIHeaders(req, token)

	log.Debug().Str("method", method).Str("endpoint", endpoint).Msg("Sending API request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("API request failed at transport level")
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Str("endpoint", endpoint).Msg("API request returned non-OK status")
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// requestJSON performs Request and decodes the response into out, which may
// be nil when no response body is expected.
func (c *Client) requestJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	body, err := c.Request(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}

// setAPIHeaders attaches the identification headers the mobile API requires
// alongside the bearer token.
func setAPIHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("app_name", headerAppName)
	req.Header.Set("app_version", headerAppVersion)
	req.Header.Set("app_device_os", headerDeviceOS)
	req.Header.Set("device_version", headerDeviceVersion)
	req.Header.Set("device_manufacturer", headerDeviceManufacturer)
	req.Header.Set("device_model", headerDeviceModel)
	req.Header.Set("User-Agent", headerUserAgent)
	req.Header.Set("api_version", "1.0")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
}
