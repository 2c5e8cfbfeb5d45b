package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: models.RoleGamer, IsActive: true}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, models.RoleGamer, byID.Role)

	byEmail, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewTestDB(t))

	_, err := repo.FindByID(42)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByUsername("nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	assert.ErrorIs(t, repo.SetActive(42, false), repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.SoftDelete(42, time.Now()), repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(&models.User{ID: 42, Username: "ghost", Email: "ghost@example.com", Password: "hash"}), repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	testutil.CreateUser(t, db, "alice", models.RoleGamer)

	err := repo.Create(&models.User{Username: "alice", Email: "other@example.com", Password: "hash", Role: models.RoleGamer, IsActive: true})
	assert.ErrorIs(t, err, repository.ErrUserExists)

	err = repo.Create(&models.User{Username: "other", Email: "alice@example.com", Password: "hash", Role: models.RoleGamer, IsActive: true})
	assert.ErrorIs(t, err, repository.ErrUserExists)

	bob := testutil.CreateUser(t, db, "bob", models.RoleGamer)
	bob.Username = "alice"
	assert.ErrorIs(t, repo.Update(bob), repository.ErrUserExists)
}

func TestUserRepository_ListOrderedAndPaginated(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	for i := 0; i < 12; i++ {
		testutil.CreateUser(t, db, fmt.Sprintf("user%02d", i), models.RoleGamer)
	}

	firstPage, total, err := repo.List(0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, firstPage, 10)
	assert.Equal(t, "user00", firstPage[0].Username)

	secondPage, total, err := repo.List(10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, secondPage, 2)
	assert.Equal(t, "user11", secondPage[1].Username)
	assert.Less(t, firstPage[9].ID, secondPage[0].ID)
}

func TestUserRepository_SetActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	user := testutil.CreateUser(t, db, "alice", models.RoleGamer)

	require.NoError(t, repo.SetActive(user.ID, false))
	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	require.NoError(t, repo.SetActive(user.ID, true))
	found, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsActive)
}

func TestUserRepository_SoftDeleteHidesAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice", models.RoleGamer)
	testutil.CreateUser(t, db, "bob", models.RoleGamer)

	deletedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SoftDelete(alice.ID, deletedAt))

	_, err := repo.FindByID(alice.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.FindByEmail("alice@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	users, total, err := repo.List(0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The row is retained for audit
	var retained models.User
	require.NoError(t, db.Unscoped().First(&retained, alice.ID).Error)
	assert.True(t, retained.IsSoftDeleted())
	assert.WithinDuration(t, deletedAt, retained.DeletedAt.Time, time.Second)

	// A second delete finds nothing and keeps the original timestamp
	assert.ErrorIs(t, repo.SoftDelete(alice.ID, deletedAt.Add(time.Hour)), repository.ErrUserNotFound)
	require.NoError(t, db.Unscoped().First(&retained, alice.ID).Error)
	assert.WithinDuration(t, deletedAt, retained.DeletedAt.Time, time.Second)
}

// ==================== STALE WRITES ====================

func TestUserRepository_UpdateKeepsDeactivation(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice", models.RoleGamer)

	// A profile edit loaded before the deactivation is written after it
	stale, err := repo.FindByID(alice.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(alice.ID, false))

	stale.Username = "alice_renamed"
	stale.Password = "new-hash"
	require.NoError(t, repo.Update(stale))

	found, err := repo.FindByID(alice.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, "alice_renamed", found.Username)
	assert.Equal(t, "new-hash", found.Password)
}

func TestUserRepository_UpdateCannotRestoreDeletedAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice", models.RoleGamer)

	stale, err := repo.FindByID(alice.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(alice.ID, time.Now()))

	stale.Password = "new-hash"
	assert.ErrorIs(t, repo.Update(stale), repository.ErrUserNotFound)

	_, err = repo.FindByID(alice.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	var retained models.User
	require.NoError(t, db.Unscoped().First(&retained, alice.ID).Error)
	assert.True(t, retained.IsSoftDeleted())
	assert.NotEqual(t, "new-hash", retained.Password)
}
