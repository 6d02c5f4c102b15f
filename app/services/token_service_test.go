package services

import (
	"testing"
	"time"

	"github.com/caribelex/expedientes/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(
		accessTTL, refreshTTL,
		"expedientes-test", "expedientes-api",
		false, "", "",
		"test-secret-key-that-is-long-enough",
	)
	require.NoError(t, err)
	return svc
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)

	accessToken, refreshToken, err := svc.GenerateTokens(42, models.RoleGestor)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	access, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), access.UserID)
	assert.Equal(t, models.RoleGestor, access.Rol)
	assert.Equal(t, "access", access.TokenType)
	assert.NotEmpty(t, access.TokenID)
	assert.True(t, access.ExpiresAt.After(access.IssuedAt))

	refresh, err := svc.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.TokenType)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceRejectsWrongKey(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, time.Hour)

	other, err := NewTokenService(
		15*time.Minute, time.Hour,
		"expedientes-test", "expedientes-api",
		false, "", "",
		"a-completely-different-secret-key",
	)
	require.NoError(t, err)

	accessToken, _, err := svc.GenerateTokens(7, models.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute, time.Hour)

	accessToken, _, err := svc.GenerateTokens(7, models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceRefresh(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, time.Hour)

	accessToken, refreshToken, err := svc.GenerateTokens(7, models.RoleAuditor)
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAuditor, claims.Rol)

	// An access token is not accepted in place of a refresh token
	_, _, err = svc.RefreshToken(accessToken)
	require.Error(t, err)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(15*time.Minute, time.Hour, "iss", "aud", false, "", "", "")
	require.Error(t, err)
}
