package auth

import (
	"context"

	"github.com/dimplex-community/dimctl/client"
)

// EngineRefresher implements TokenRefresher on top of the authentication
// engine, so the engine's token state stays the single source of truth.
type EngineRefresher struct {
	Engine *client.AuthManager
}

func (r *EngineRefresher) PerformTokenRefresh(ctx context.Context, refreshToken string) (*client.TokenState, error) {
	if err := r.Engine.Refresh(ctx); err != nil {
		return nil, err
	}
	return r.Engine.Tokens(), nil
}
