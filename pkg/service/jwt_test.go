package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "erp-system/pkg/errors"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())

	access, refresh, err := svc.GenerateTokens(42, 10, 3)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, uint64(10), claims.CompanyID)
	assert.Equal(t, uint64(3), claims.RoleID)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	svc := NewJWTService("secret-one", time.Hour, 24*time.Hour, zap.NewNop())
	other := NewJWTService("secret-two", time.Hour, 24*time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens(1, 1, 1)
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_ExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, 24*time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens(1, 1, 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestJWTService_GarbageRejected(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())

	_, err := svc.ValidateToken("не.токен.вовсе")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
