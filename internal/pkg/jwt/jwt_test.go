package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateAccessToken(42, "aarav@email.com", "BORROWER", testSecret, 15)
		require.NoError(t, err)

		claims, err := ValidateAccessToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "aarav@email.com", claims.Email)
		assert.Equal(t, "BORROWER", claims.Role)
		assert.Equal(t, "liblend", claims.Issuer)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken(42, "aarav@email.com", "BORROWER", testSecret, 15)
		require.NoError(t, err)

		_, err = ValidateAccessToken(token, "some-other-secret")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateAccessToken(42, "aarav@email.com", "BORROWER", testSecret, -1)
		require.NoError(t, err)

		_, err = ValidateAccessToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateAccessToken("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
		require.NoError(t, err)

		claims, err := ValidateRefreshToken(token, testRefreshSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "token-id-1", claims.TokenID)
	})

	t.Run("access secret does not validate refresh tokens", func(t *testing.T) {
		token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
		require.NoError(t, err)

		_, err = ValidateRefreshToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
