package jwt

import (
	"testing"
	"time"

	"github.com/spitex-domus/domus-backend/pkg/config"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(expiry time.Duration) *Manager {
	return NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: expiry,
		Issuer:       "spitex-domus",
	})
}

func TestManager_GenerateAndValidate(t *testing.T) {
	m := testManager(time.Hour)

	token, err := m.Generate(&EmployeeInfo{
		ID:    "emp-1",
		Email: "anna@example.com",
		Name:  "Anna Keller",
		Role:  "EMPLOYEE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := m.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, "emp-1", claims.Subject)
	assert.Equal(t, "EMPLOYEE", claims.Role)
	assert.Equal(t, "spitex-domus", claims.Issuer)
}

func TestManager_ValidateRejectsExpired(t *testing.T) {
	m := testManager(-time.Minute)

	token, err := m.Generate(&EmployeeInfo{ID: "emp-1", Role: "EMPLOYEE"})
	require.NoError(t, err)

	_, err = m.Validate(token.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestManager_ValidateRejectsWrongSecret(t *testing.T) {
	token, err := testManager(time.Hour).Generate(&EmployeeInfo{ID: "emp-1"})
	require.NoError(t, err)

	other := NewManager(&config.JWTConfig{
		Secret:       "different-secret",
		AccessExpiry: time.Hour,
		Issuer:       "spitex-domus",
	})
	_, err = other.Validate(token.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}

func TestManager_ValidateRejectsGarbage(t *testing.T) {
	_, err := testManager(time.Hour).Validate("not.a.token")
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}
