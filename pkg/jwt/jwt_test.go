package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)

	token, tokenID, err := tm.GenerateToken(42, "mentor@example.com", "mentor")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, tokenID)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "mentor@example.com", claims.Email)
	assert.Equal(t, "mentor", claims.Role)
	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)

	_, id1, err := tm.GenerateToken(1, "a@example.com", "mentee")
	require.NoError(t, err)
	_, id2, err := tm.GenerateToken(1, "a@example.com", "mentee")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)
	other := NewTokenManager("other-secret", "test-issuer", 1)

	token, _, err := tm.GenerateToken(1, "a@example.com", "mentee")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", -1)

	token, _, err := tm.GenerateToken(1, "a@example.com", "mentee")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)

	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("abc", "abc"))
	assert.False(t, TimingSafeCompare("abc", "abd"))
	assert.False(t, TimingSafeCompare("abc", "abcd"))
}
