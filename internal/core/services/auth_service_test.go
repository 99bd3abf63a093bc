package services

import (
	"context"
	"testing"

	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a borrower and issues tokens", func(t *testing.T) {
		db := newTestDB(t)
		svc := newAuthService(db)

		resp, err := svc.Register(ctx, &RegisterInput{
			Name:     "Aarav Sharma",
			Email:    "Aarav@Email.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.RoleBorrower), resp.User.Role)
		assert.Equal(t, "aarav@email.com", resp.User.Email)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("duplicate email is rejected regardless of case", func(t *testing.T) {
		db := newTestDB(t)
		svc := newAuthService(db)

		_, err := svc.Register(ctx, &RegisterInput{
			Name:     "Aarav Sharma",
			Email:    "aarav@email.com",
			Password: "password123",
		})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &RegisterInput{
			Name:     "Another Aarav",
			Email:    "AARAV@EMAIL.COM",
			Password: "password456",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateContact)

		// The losing registration must not create a second account.
		var count int64
		require.NoError(t, db.Table("users").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(ctx, &RegisterInput{
		Name:     "Aarav Sharma",
		Email:    "aarav@email.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginInput{
			Email:    "aarav@email.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		claims, err := svc.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, string(domain.RoleBorrower), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginInput{
			Email:    "aarav@email.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginInput{
			Email:    "nobody@email.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(ctx, &RegisterInput{
		Name:     "Aarav Sharma",
		Email:    "aarav@email.com",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// Rotation revoked the old token; replaying it must fail.
	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// The rotated token still works.
	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(ctx, &RegisterInput{
		Name:     "Aarav Sharma",
		Email:    "aarav@email.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, registered.RefreshToken))

	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(ctx, &RegisterInput{
		Name:     "Aarav Sharma",
		Email:    "aarav@email.com",
		Password: "password123",
	})
	require.NoError(t, err)

	session2, err := svc.Login(ctx, &LoginInput{
		Email:    "aarav@email.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, registered.User.ID))

	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = svc.RefreshToken(ctx, session2.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
