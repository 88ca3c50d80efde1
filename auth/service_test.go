package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimplex-community/dimctl/auth"
	"github.com/dimplex-community/dimctl/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStorer struct {
	tokenToReturn *client.TokenState
	errToReturn   error
	upsertCalled  bool
}

func (m *mockStorer) GetTokenRecord() (*client.TokenState, error) {
	return m.tokenToReturn, m.errToReturn
}

func (m *mockStorer) UpsertTokenRecord(tokens *client.TokenState) error {
	m.upsertCalled = true
	m.tokenToReturn = tokens
	return nil
}

type mockRefresher struct {
	errToReturn error
	called      bool
}

func (m *mockRefresher) PerformTokenRefresh(ctx context.Context, refreshToken string) (*client.TokenState, error) {
	m.called = true
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return &client.TokenState{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
		ExpiresAt:    float64(time.Now().Add(1 * time.Hour).Unix()),
	}, nil
}

func TestEnsureFresh_WhenTokenIsValid(t *testing.T) {
	storer := &mockStorer{
		tokenToReturn: &client.TokenState{
			AccessToken:  "valid-access",
			RefreshToken: "valid-refresh",
			ExpiresAt:    float64(time.Now().Add(1 * time.Hour).Unix()),
		},
	}
	refresher := &mockRefresher{}
	service := auth.NewService(storer, refresher)

	tokens, err := service.EnsureFresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "valid-access", tokens.AccessToken)
	assert.False(t, refresher.called, "refresh should not happen for a valid token")
	assert.False(t, storer.upsertCalled, "upsert should not be called for a valid token")
}

func TestEnsureFresh_WhenTokenIsExpired(t *testing.T) {
	storer := &mockStorer{
		tokenToReturn: &client.TokenState{
			AccessToken:  "expired-access",
			RefreshToken: "expired-refresh",
			ExpiresAt:    float64(time.Now().Add(-1 * time.Hour).Unix()),
		},
	}
	service := auth.NewService(storer, &mockRefresher{})

	tokens, err := service.EnsureFresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", tokens.AccessToken)
	assert.Equal(t, "new-refresh-token", tokens.RefreshToken)
	assert.True(t, storer.upsertCalled, "upsert should be called for an expired token")
}

func TestEnsureFresh_WhenRefreshFails(t *testing.T) {
	storer := &mockStorer{
		tokenToReturn: &client.TokenState{
			AccessToken:  "expired-access",
			RefreshToken: "expired-refresh",
			ExpiresAt:    float64(time.Now().Add(-1 * time.Hour).Unix()),
		},
	}
	refreshErr := errors.New("token endpoint rejected the request")
	service := auth.NewService(storer, &mockRefresher{errToReturn: refreshErr})

	_, err := service.EnsureFresh(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, refreshErr)
	assert.False(t, storer.upsertCalled)
}

func TestEnsureFresh_WhenNoTokenStored(t *testing.T) {
	service := auth.NewService(&mockStorer{}, &mockRefresher{})

	_, err := service.EnsureFresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "please login first")
}

func TestEnsureFresh_WhenStorerFails(t *testing.T) {
	storer := &mockStorer{errToReturn: errors.New("disk on fire")}
	service := auth.NewService(storer, &mockRefresher{})

	_, err := service.EnsureFresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve token record")
}
