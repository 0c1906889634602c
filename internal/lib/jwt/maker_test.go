package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)

	token, err := maker.GenerateToken("uid-123", "ivan", "ivan@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UserUID)
	assert.Equal(t, "ivan", claims.Username)
	assert.Equal(t, "ivan@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)
	other := NewMaker("another-secret-key", time.Hour)

	token, err := maker.GenerateToken("uid-123", "ivan", "ivan@example.com", "user")
	require.NoError(t, err)

	claims, err := other.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_Expired(t *testing.T) {
	maker := NewMaker("test-secret-key", -time.Minute)

	token, err := maker.GenerateToken("uid-123", "ivan", "ivan@example.com", "user")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_Garbage(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)

	claims, err := maker.ParseToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
