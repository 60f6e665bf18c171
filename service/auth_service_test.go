// file: service/auth_service_test.go

package service

import (
	"context"
	"testing"
	"time"

	"bank-ledger/common"

	"github.com/stretchr/testify/assert"
)

func TestAuthService_HashAndCheckPassword(t *testing.T) {
	auth := newTestAuthService(newMemoryCache())
	password := "mySecretPassw0rd!"

	hashedPassword, err := auth.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, auth.CheckPasswordHash(password, hashedPassword))
	assert.False(t, auth.CheckPasswordHash("notMyPassword", hashedPassword))
}

func TestAuthService_SessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(newMemoryCache())

	token, err := auth.GenerateSessionToken("1234567890")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseSessionToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "1234567890", claims.AccountNumber)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_RejectsTamperedToken(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(newMemoryCache())
	other := NewAuthService([]byte("another-secret"), time.Hour, newMemoryCache())

	token, err := other.GenerateSessionToken("1234567890")
	assert.NoError(t, err)

	_, err = auth.ParseSessionToken(ctx, token)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService([]byte("test-secret"), -time.Minute, newMemoryCache())

	token, err := auth.GenerateSessionToken("1234567890")
	assert.NoError(t, err)

	_, err = auth.ParseSessionToken(ctx, token)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestAuthService_RevokedTokenIsTerminal(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(newMemoryCache())

	token, err := auth.GenerateSessionToken("1234567890")
	assert.NoError(t, err)

	_, err = auth.ParseSessionToken(ctx, token)
	assert.NoError(t, err)

	assert.NoError(t, auth.RevokeSessionToken(ctx, token))

	_, err = auth.ParseSessionToken(ctx, token)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)

	// Revoking an already revoked session reports the same failure.
	assert.ErrorIs(t, auth.RevokeSessionToken(ctx, token), common.ErrAuthenticationFailed)
}
