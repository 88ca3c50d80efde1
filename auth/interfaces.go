package auth

import (
	"context"

	"github.com/dimplex-community/dimctl/client"
)

// TokenStorer defines the contract for any component that can store and
// retrieve the token record. A nil record with a nil error means no tokens
// are stored yet.
type TokenStorer interface {
	GetTokenRecord() (*client.TokenState, error)
	UpsertTokenRecord(tokens *client.TokenState) error
}

// TokenRefresher defines the contract for any component that can trade a
// refresh token for a fresh token state.
type TokenRefresher interface {
	PerformTokenRefresh(ctx context.Context, refreshToken string) (*client.TokenState, error)
}
