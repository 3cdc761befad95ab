package security

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))

	other, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "digests are salted")
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	InitJWT([]byte("test-secret"), time.Hour)

	tok, err := GenerateToken("u-1", "owner")
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(TokenAuth, tok)
	require.NoError(t, err)
	claims := parsed.PrivateClaims()

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)

	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "owner", role)
}

func TestGetUserIDFromClaims_Missing(t *testing.T) {
	_, err := GetUserIDFromClaims(map[string]interface{}{"role": "owner"})
	assert.Error(t, err)
	_, err = GetUserRoleFromClaims(map[string]interface{}{"user_id": "u"})
	assert.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	InitJWT([]byte("first"), time.Hour)
	tok, err := GenerateToken("u-1", "owner")
	require.NoError(t, err)

	InitJWT([]byte("second"), time.Hour)
	_, err = jwtauth.VerifyToken(TokenAuth, tok)
	assert.Error(t, err)
}
