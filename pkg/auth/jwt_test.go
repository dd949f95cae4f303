package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalog-backend/pkg/errors"
)

const testSecret = "test-secret-key"

func testConfig() Config {
	return Config{SecretKey: testSecret, Issuer: "catalog-backend"}
}

func TestValidator_RoundTrip(t *testing.T) {
	gen := NewGenerator(testConfig(), time.Hour)
	token, err := gen.Generate("clerk", "clerk@example.com", []string{"USER"})
	require.NoError(t, err)

	v, err := NewValidator(testConfig())
	require.NoError(t, err)

	claims, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "clerk", claims.Username)
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, []string{"USER"}, claims.Groups)
}

func TestValidator_ExpiredToken(t *testing.T) {
	gen := NewGenerator(testConfig(), -time.Minute)
	token, err := gen.Generate("clerk", "clerk@example.com", nil)
	require.NoError(t, err)

	v, err := NewValidator(testConfig())
	require.NoError(t, err)

	_, err = v.Parse(token)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "token has expired", appErr.Message)
}

func TestValidator_WrongSecret(t *testing.T) {
	gen := NewGenerator(Config{SecretKey: "other-secret", Issuer: "catalog-backend"}, time.Hour)
	token, err := gen.Generate("clerk", "clerk@example.com", nil)
	require.NoError(t, err)

	v, err := NewValidator(testConfig())
	require.NoError(t, err)

	_, err = v.Parse(token)
	assert.Error(t, err)
}

func TestValidator_WrongIssuer(t *testing.T) {
	gen := NewGenerator(Config{SecretKey: testSecret, Issuer: "someone-else"}, time.Hour)
	token, err := gen.Generate("clerk", "clerk@example.com", nil)
	require.NoError(t, err)

	v, err := NewValidator(testConfig())
	require.NoError(t, err)

	_, err = v.Parse(token)
	assert.Error(t, err)
}

func TestNewValidator_RequiresSecret(t *testing.T) {
	_, err := NewValidator(Config{})
	assert.Error(t, err)
}
