package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-chars-long!!", time.Hour)
	userID := uuid.New()

	token, err := mgr.GenerateToken(userID, "pat@example.com", "Pat")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, "Pat", claims.DisplayName)
}

func TestJWTValidationFailures(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-chars-long!!", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := mgr.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("a-completely-different-32-char-key!!", time.Hour)
		token, err := other.GenerateToken(uuid.New(), "pat@example.com", "Pat")
		require.NoError(t, err)

		_, err = mgr.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-at-least-32-chars-long!!", -time.Minute)
		token, err := expired.GenerateToken(uuid.New(), "pat@example.com", "Pat")
		require.NoError(t, err)

		_, err = mgr.ValidateToken(token)
		assert.Error(t, err)
	})
}
