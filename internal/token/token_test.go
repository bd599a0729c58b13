package token

import (
	"testing"
	"time"

	"github.com/stocktrail/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	g := NewGenerator("test-secret", time.Hour, 7*24*time.Hour)

	assert.NotNil(t, g)
	assert.Equal(t, "test-secret", g.secret)
	assert.Equal(t, time.Hour, g.accessExpiry)
	assert.Equal(t, 7*24*time.Hour, g.refreshExpiry)
}

func TestGenerator_GeneratePair(t *testing.T) {
	g := NewGenerator("b8a3c2267dc85f855dea9b46b452bf20", time.Hour, 7*24*time.Hour)

	t.Run("round trip preserves user and role", func(t *testing.T) {
		accessToken, refreshToken, err := g.GeneratePair(123, models.RoleAdmin)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)

		userID, role, err := g.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, 123, userID)
		assert.Equal(t, models.RoleAdmin, role)

		assert.NoError(t, g.ValidateRefreshToken(refreshToken))
	})

	t.Run("refresh tokens minted in the same second are distinct", func(t *testing.T) {
		_, first, err := g.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)
		_, second, err := g.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("different users never share a refresh token", func(t *testing.T) {
		_, first, err := g.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)
		_, second, err := g.GeneratePair(2, models.RoleUser)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("user role round trip", func(t *testing.T) {
		accessToken, _, err := g.GeneratePair(7, models.RoleUser)
		require.NoError(t, err)

		userID, role, err := g.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, 7, userID)
		assert.Equal(t, models.RoleUser, role)
	})
}

func TestGenerator_ValidateAccessToken(t *testing.T) {
	g := NewGenerator("test-secret", time.Hour, 7*24*time.Hour)

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := g.ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewGenerator("other-secret", time.Hour, 7*24*time.Hour)
		accessToken, _, err := other.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		_, _, err = g.ValidateAccessToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("rejects refresh token used as access token", func(t *testing.T) {
		_, refreshToken, err := g.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		_, _, err = g.ValidateAccessToken(refreshToken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an access token")
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewGenerator("test-secret", -time.Minute, 7*24*time.Hour)
		accessToken, _, err := expired.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		_, _, err = g.ValidateAccessToken(accessToken)
		assert.Error(t, err)
	})
}

func TestGenerator_ValidateRefreshToken(t *testing.T) {
	g := NewGenerator("test-secret", time.Hour, 7*24*time.Hour)

	t.Run("rejects access token used as refresh token", func(t *testing.T) {
		accessToken, _, err := g.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		err = g.ValidateRefreshToken(accessToken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a refresh token")
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewGenerator("test-secret", time.Hour, -time.Minute)
		_, refreshToken, err := expired.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		assert.Error(t, g.ValidateRefreshToken(refreshToken))
	})
}
