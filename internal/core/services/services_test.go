package services

import (
	"testing"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database, migrated and seeded
// with the static role set. MaxOpenConns is pinned to 1 because every
// :memory: connection is its own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	for _, name := range []string{models.RoleAdmin, models.RoleManager, models.RoleUser, models.RoleGuest} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:    "test-secret",
			Issuer:    "librahub",
			Audience:  "librahub-clients",
			TokenDays: 7,
		},
		Orders: config.OrderConfig{HoldDays: 14},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, roleNames ...string) *models.User {
	t.Helper()

	var roles []models.Role
	if len(roleNames) > 0 {
		require.NoError(t, db.Where("name IN ?", roleNames).Find(&roles).Error)
	}

	user := &models.User{
		Email:    email,
		Name:     "Test User",
		Password: "$2a$12$unused.hash.placeholder.value.0000000000000000000000",
		IsActive: true,
		Roles:    roles,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, name string) *models.Book {
	t.Helper()

	book := &models.Book{
		Name:        name,
		Author:      "Test Author",
		Genre:       "Fiction",
		Type:        models.BookTypePaper,
		Year:        2020,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}
