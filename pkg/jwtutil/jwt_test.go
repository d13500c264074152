package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/config"
)

func testUser() *model.User {
	return &model.User{
		ID:    42,
		Email: "tenant@example.com",
		Role:  model.RoleTenant,
	}
}

func initTestConfig(t *testing.T) {
	t.Helper()
	Initialize(&config.JWTConfig{
		SigningKey:         "test-signing-key",
		AccessExpiryHours:  24,
		RefreshExpiryHours: 168,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "tenant@example.com", claims.Email)
	assert.Equal(t, model.RoleTenant, claims.Role)
	assert.Equal(t, KindAccess, claims.Kind)
}

func TestRefreshTokenCarriesKind(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, claims.Kind)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	initTestConfig(t)
	token, err := GenerateAccessToken(testUser())
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "a-different-key", AccessExpiryHours: 24, RefreshExpiryHours: 168})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	initTestConfig(t)
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExpiresIn(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken(testUser())
	require.NoError(t, err)
	claims, err := ValidateToken(token)
	require.NoError(t, err)

	remaining := claims.ExpiresIn()
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, 24*time.Hour)
}

func TestGenerateWithoutConfig(t *testing.T) {
	Initialize(nil)
	defer initTestConfig(t)

	_, err := GenerateAccessToken(testUser())
	assert.Error(t, err)
}
