package service

import (
	"testing"
	"time"

	"cross-chain-pool/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOperator() *domain.Operator {
	return &domain.Operator{
		Username: "resp-op",
		Role:     domain.RoleResponder,
		Address:  testResponder,
	}
}

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "cross-chain-pool")

	token, expiry, err := svc.Generate(testOperator())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "resp-op", claims.Username)
	assert.Equal(t, testResponder, claims.Address)
	assert.Equal(t, domain.RoleResponder, claims.Role)
}

func TestJWTTokenService_ValidateWrongSecret(t *testing.T) {
	svc := NewJWTTokenService("secret-a", time.Hour, "cross-chain-pool")
	other := NewJWTTokenService("secret-b", time.Hour, "cross-chain-pool")

	token, _, err := svc.Generate(testOperator())
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_ValidateExpiredToken(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "cross-chain-pool")

	token, _, err := svc.Generate(testOperator())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_ValidateGarbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "cross-chain-pool")

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}
