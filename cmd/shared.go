package cmd

import (
	"context"
	"strings"

	"github.com/dimplex-community/dimctl/auth"
	"github.com/dimplex-community/dimctl/client"
	"github.com/dimplex-community/dimctl/pkg/clierr"
	"github.com/rs/zerolog/log"
)

// timerModes maps the names accepted on the command line to the wire values
// of the SetTimerMode operation.
var timerModes = map[string]int{
	"timer":  0,
	"manual": 1,
	"frost":  2,
	"off":    3,
}

// timerModeName returns the command-line name of a wire mode value, or an
// empty string for an unknown value.
func timerModeName(mode int) string {
	for name, value := range timerModes {
		if value == mode {
			return name
		}
	}
	return ""
}

// isValidTimerMode checks if a given mode name is valid.
func isValidTimerMode(mode string) bool {
	_, ok := timerModes[strings.ToLower(mode)]
	return ok
}

// session bundles the pieces every authenticated command needs: the token
// store, the authentication engine behind it, and the API client on top.
type session struct {
	store  *auth.FileStore
	engine *client.AuthManager
	api    *client.Client
}

// newSession loads any stored tokens and wires up the engine and the API
// client around a single shared token state.
func newSession() *session {
	store := auth.NewFileStore(auth.DefaultTokenPath())
	tokens, err := store.GetTokenRecord()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load stored tokens; starting unauthenticated.")
		tokens = nil
	}
	engine := client.NewAuthManager(tokens)
	return &session{
		store:  store,
		engine: engine,
		api:    client.New(engine),
	}
}

// ensureFresh makes sure the session holds a usable access token, refreshing
// and persisting it if needed.
func (s *session) ensureFresh(ctx context.Context) error {
	service := auth.NewService(s.store, &auth.EngineRefresher{Engine: s.engine})
	if _, err := service.EnsureFresh(ctx); err != nil {
		return clierr.New(clierr.Auth, "not authenticated; run `dimctl login` first", err)
	}
	return nil
}

// persistTokens writes the engine's current token state to the token store.
func (s *session) persistTokens() error {
	return s.store.UpsertTokenRecord(s.engine.Tokens())
}
