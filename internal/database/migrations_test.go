package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// sqliteDialect rewrites the Postgres-only types used by the migrations
var sqliteDialect = strings.NewReplacer(
	"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT",
	"BIGINT", "INTEGER",
	"TIMESTAMPTZ", "DATETIME",
	"NOW()", "CURRENT_TIMESTAMP",
)

// migratedDB applies the up section of an embedded migration to a fresh sqlite database,
// without AutoMigrate, so the models are checked against the hand-written schema
func migratedDB(t *testing.T, file string) *gorm.DB {
	t.Helper()

	raw, err := embedMigrations.ReadFile("migrations/" + file)
	require.NoError(t, err)
	up, _, found := strings.Cut(string(raw), "-- +goose Down")
	require.True(t, found)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec(sqliteDialect.Replace(up)).Error)
	return db
}

func TestUsersMigration_MatchesUserModel(t *testing.T) {
	db := migratedDB(t, "00001_create_users.sql")
	repo := repository.NewUserRepository(db)

	gamer := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: models.RoleGamer, IsActive: true}
	require.NoError(t, repo.Create(gamer))
	admin := &models.User{Username: "root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(admin))

	found, err := repo.FindByID(gamer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGamer, found.Role)
	assert.True(t, found.IsActive)

	found, err = repo.FindByEmail("root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)

	// Role names are what the column stores
	var stored string
	require.NoError(t, db.Raw("SELECT role FROM users WHERE id = ?", admin.ID).Scan(&stored).Error)
	assert.Equal(t, "ADMIN", stored)

	// Omitting the role falls back to the column default
	require.NoError(t, db.Exec("INSERT INTO users (username, email, password) VALUES ('bob', 'bob@example.com', 'hash')").Error)
	found, err = repo.FindByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGamer, found.Role)
}

func TestModelsParse(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	for _, model := range []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Genre{},
		&models.Platform{},
		&models.Game{},
	} {
		stmt := &gorm.Statement{DB: db}
		assert.NoError(t, stmt.Parse(model), "%T", model)
	}
}
