package client

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// TokenState holds the bearer tokens for one user session.
// ExpiresAt is an absolute unix timestamp; the access token must be treated
// as invalid from that instant on.
type TokenState struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresAt    float64 `json:"expires_at"`
}

// Valid reports whether the access token can still be used.
func (t *TokenState) Valid(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return float64(now.Unix()) < t.ExpiresAt
}

// SaveTokens writes the token state to a JSON file.
func SaveTokens(path string, tokens *TokenState) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Tokens saved")
	return nil
}

// LoadTokens reads a previously saved token state. A missing or unreadable
// file is not an error; it just means there are no stored tokens.
func LoadTokens(path string) *TokenState {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", path).Msg("Failed to read token file")
		}
		return nil
	}
	var tokens TokenState
	if err := json.Unmarshal(data, &tokens); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse token file")
		return nil
	}
	return &tokens
}

var codeRegexp = regexp.MustCompile(`code=([^&\s]+)`)

// ExtractAuthCode pulls the authorization code out of a redirect URL. The
// input may also be the bare code itself, which is returned unchanged.
func ExtractAuthCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty input")
	}
	if !strings.Contains(input, "code=") {
		if strings.Contains(input, "://") {
			return "", errors.New("authorization code not found in the URL")
		}
		// Assume the input is the bare code itself.
		return input, nil
	}
	if parsed, err := url.Parse(input); err == nil {
		if code := parsed.Query().Get("code"); code != "" {
			return code, nil
		}
	}
	// The redirect target uses a custom URI scheme that url.Parse may choke
	// on, so fall back to a plain pattern match.
	if m := codeRegexp.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", errors.New("authorization code not found in the URL")
}
