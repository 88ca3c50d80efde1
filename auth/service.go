package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dimplex-community/dimctl/client"
	"github.com/rs/zerolog/log"
)

// Service orchestrates the token lifecycle for the CLI: it keeps the stored
// token record fresh using its dependencies.
type Service struct {
	Storer    TokenStorer
	Refresher TokenRefresher
}

// NewService is the constructor for the auth service.
func NewService(storer TokenStorer, refresher TokenRefresher) *Service {
	return &Service{
		Storer:    storer,
		Refresher: refresher,
	}
}

// EnsureFresh returns a token record with a usable access token, refreshing
// and persisting it first if the stored one has expired.
func (s *Service) EnsureFresh(ctx context.Context) (*client.TokenState, error) {
	tokens, err := s.Storer.GetTokenRecord()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve token record: %w", err)
	}
	if tokens == nil || tokens.RefreshToken == "" {
		return nil, fmt.Errorf("no token record found; please login first")
	}

	if tokens.Valid(time.Now()) {
		return tokens, nil
	}

	refreshed, err := s.Refresher.PerformTokenRefresh(ctx, tokens.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := s.Storer.UpsertTokenRecord(refreshed); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}
	log.Info().Msg("Token refreshed and saved successfully.")
	return refreshed, nil
}
