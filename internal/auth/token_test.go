package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleTechnician)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleTechnician, claims.Role)
}

func TestParseTokenRejections(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	t.Run("garbage input", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("another-secret", 30)
		token, _, err := other.GenerateToken("user-1", domain.RoleAdmin)
		require.NoError(t, err)
		_, err = tm.ParseToken(token)
		require.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secreto123", 4)
	require.NoError(t, err)
	require.NotEqual(t, "secreto123", hash)

	require.NoError(t, ComparePassword(hash, "secreto123"))
	require.Error(t, ComparePassword(hash, "otra"))
}
