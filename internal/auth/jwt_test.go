package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestJWTManager(t *testing.T) JWTManagerInterface {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	return NewJWTManager()
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t)

	token, expiresAt, err := manager.GenerateAccessJWT("user-1", defaultJWTDuration)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(defaultJWTDuration), expiresAt, time.Minute)

	userID, parsedExpiresAt, err := manager.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.WithinDuration(t, expiresAt, parsedExpiresAt, time.Second)
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	manager := newTestJWTManager(t)

	token, _, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	assert.NoError(t, err)

	_, _, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestValidateAccessToken_RejectsTampered(t *testing.T) {
	manager := newTestJWTManager(t)

	token, _, err := manager.GenerateAccessJWT("user-1", defaultJWTDuration)
	assert.NoError(t, err)

	_, _, err = manager.ValidateAccessToken(token + "x")
	assert.Error(t, err)
}

func TestRefreshTokenCarriesUserID(t *testing.T) {
	manager := newTestJWTManager(t)

	token, _, err := manager.GenerateRefreshJWT("user-7", defaultJWTRefreshDuration)
	assert.NoError(t, err)

	userID, err := manager.ExtractUserIDFromRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-7", userID)
}

func TestAccessTokenIsNotARefreshTokenSecretMismatch(t *testing.T) {
	os.Setenv("JWT_SECRET", "secret-a")
	managerA := NewJWTManager()
	token, _, err := managerA.GenerateAccessJWT("user-1", defaultJWTDuration)
	assert.NoError(t, err)

	os.Setenv("JWT_SECRET", "secret-b")
	managerB := NewJWTManager()
	_, _, err = managerB.ValidateAccessToken(token)
	assert.Error(t, err)
}
