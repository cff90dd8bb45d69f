package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "librahub"
	testAudience = "librahub-clients"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "reader@example.com", "Reader", []string{"USER", "MANAGER"}, testSecret, testIssuer, testAudience, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, testSecret, testIssuer, testAudience)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "Reader", claims.Name)
	assert.Equal(t, []string{"USER", "MANAGER"}, claims.Roles)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.com", "A", []string{"USER"}, testSecret, testIssuer, testAudience, 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret", testIssuer, testAudience)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.com", "A", []string{"USER"}, testSecret, "someone-else", testAudience, 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret, testIssuer, testAudience)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_WrongAudience(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.com", "A", []string{"USER"}, testSecret, testIssuer, "other-clients", 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret, testIssuer, testAudience)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.com", "A", []string{"USER"}, testSecret, testIssuer, testAudience, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret, testIssuer, testAudience)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret, testIssuer, testAudience)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestClaimsHasRole(t *testing.T) {
	claims := &Claims{Roles: []string{"USER", "MANAGER"}}

	assert.True(t, claims.HasRole("USER"))
	assert.True(t, claims.HasRole("MANAGER"))
	assert.False(t, claims.HasRole("ADMIN"))
	assert.False(t, claims.HasRole("user"))
}
