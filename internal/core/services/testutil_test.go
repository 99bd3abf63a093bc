package services

import (
	"testing"

	"liblend/internal/adapters/persistence/models"
	"liblend/internal/config"
	"liblend/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema.
// TranslateError makes unique-index violations surface as
// gorm.ErrDuplicatedKey, matching the MySQL setup in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive across the
	// test and queues concurrent transactions instead of failing them.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func createAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	admin := &models.User{
		Name:     "Librarian",
		Email:    "librarian@library.local",
		Password: "not-a-real-hash",
		Role:     string(domain.RoleAdmin),
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func createBorrower(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	borrower := &models.User{
		Name:     name,
		Email:    email,
		Password: "not-a-real-hash",
		Role:     string(domain.RoleBorrower),
	}
	require.NoError(t, db.Create(borrower).Error)
	return borrower
}

func createBook(t *testing.T, db *gorm.DB, title, isbn string) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:     title,
		Author:    "Test Author",
		ISBN:      isbn,
		Available: true,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func actorFor(user *models.User) domain.ActorContext {
	return domain.ActorContext{
		ID:   user.ID,
		Role: domain.Role(user.Role),
	}
}
