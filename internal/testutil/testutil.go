// Package testutil holds shared fixtures, mocks and wiring for the package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// DefaultPassword is the plain-text password of every fixture account
const DefaultPassword = "password123"

// TestConfig returns a configuration suitable for tests
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		JWTSecret:              "test-secret",
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 3600,
		IdentityCacheTTL:       300,
		RateLimitPerMinute:     120,
		CORSAllowedOrigins:     []string{"*"},
		HousekeepingSchedule:   "@every 1h",
	}
}

// TestLogger returns a logger that discards everything
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens an in-memory sqlite database with the full schema
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Each connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Genre{},
		&models.Platform{},
		&models.Game{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// CreateUser stores an active account with DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateGenre stores a genre
func CreateGenre(t *testing.T, db *gorm.DB, name, slug string) *models.Genre {
	t.Helper()

	genre := &models.Genre{ReferenceData: models.ReferenceData{Name: name, Slug: slug}}
	require.NoError(t, db.Create(genre).Error)
	return genre
}

// CreatePlatform stores a platform
func CreatePlatform(t *testing.T, db *gorm.DB, name, slug string) *models.Platform {
	t.Helper()

	platform := &models.Platform{ReferenceData: models.ReferenceData{Name: name, Slug: slug}}
	require.NoError(t, db.Create(platform).Error)
	return platform
}

// CreateGame stores game as-is; the caller fills in owner and references
func CreateGame(t *testing.T, db *gorm.DB, game *models.Game) *models.Game {
	t.Helper()

	require.NoError(t, db.Omit("Owner", "Genre", "Platform").Create(game).Error)
	return game
}

// Identity builds an active identity snapshot for user
func Identity(user *models.User) access.Identity {
	return access.IdentityFromUser(user)
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v
func StringPtr(v string) *string {
	return &v
}
