package cmd

import (
	"path/filepath"
	"testing"

	"github.com/dimplex-community/dimctl/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		valid bool
	}{
		{"timer mode", "timer", true},
		{"manual mode", "manual", true},
		{"frost mode", "frost", true},
		{"off mode", "off", true},
		{"uppercase accepted", "MANUAL", true},
		{"unknown mode", "turbo", false},
		{"empty mode", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidTimerMode(tt.mode))
		})
	}
}

func TestTimerModeName(t *testing.T) {
	assert.Equal(t, "manual", timerModeName(1))
	assert.Equal(t, "off", timerModeName(3))
	assert.Equal(t, "", timerModeName(42))
}

func TestNewSession_NoStoredTokens(t *testing.T) {
	t.Setenv("DIMCTL_TOKEN_FILE", filepath.Join(t.TempDir(), "tokens.json"))

	sess := newSession()
	require.NotNil(t, sess.engine)
	require.NotNil(t, sess.api)
	assert.False(t, sess.engine.IsAuthenticated())
}

func TestSession_PersistTokensRoundTrip(t *testing.T) {
	t.Setenv("DIMCTL_TOKEN_FILE", filepath.Join(t.TempDir(), "tokens.json"))

	first := newSession()
	require.NoError(t, first.store.UpsertTokenRecord(&client.TokenState{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    4102444800, // far future
	}))

	second := newSession()
	assert.True(t, second.engine.IsAuthenticated())
	assert.Equal(t, "refresh", second.engine.Tokens().RefreshToken)
}
