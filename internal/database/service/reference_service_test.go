package service_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/testutil"
)

func TestReferenceService_AdminCreates(t *testing.T) {
	db := testutil.NewTestDB(t)
	genres := service.NewGenreService(repository.NewGenreRepository(db), access.NewFacade(), testutil.TestLogger())
	admin := testutil.Identity(testutil.CreateUser(t, db, "admin", models.RoleAdmin))

	genre, err := genres.Create(admin, "  Action RPG ")
	require.NoError(t, err)
	assert.NotZero(t, genre.ID)
	assert.Equal(t, "Action RPG", genre.Name)
	assert.Equal(t, "action-rpg", genre.Slug)

	// Uniqueness is decided on the slug, so case and punctuation variants collide
	for _, name := range []string{"action rpg", "ACTION-RPG", "Action  RPG!"} {
		_, err := genres.Create(admin, name)
		assert.ErrorIs(t, err, service.ErrReferenceNameTaken, name)
	}
}

func TestReferenceService_GamerCannotWrite(t *testing.T) {
	db := testutil.NewTestDB(t)
	platforms := service.NewPlatformService(repository.NewPlatformRepository(db), access.NewFacade(), testutil.TestLogger())
	gamer := testutil.Identity(testutil.CreateUser(t, db, "alice", models.RoleGamer))
	pc := testutil.CreatePlatform(t, db, "PC", "pc")

	_, err := platforms.Create(gamer, "Switch")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = platforms.Update(gamer, pc.ID, "Windows")
	assert.ErrorIs(t, err, access.ErrForbidden)

	found, err := platforms.Get(gamer, pc.ID)
	require.NoError(t, err)
	assert.Equal(t, "PC", found.Name)

	items, total, err := platforms.List(gamer, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestReferenceService_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	platforms := service.NewPlatformService(repository.NewPlatformRepository(db), access.NewFacade(), testutil.TestLogger())
	admin := testutil.Identity(testutil.CreateUser(t, db, "admin", models.RoleAdmin))
	ps := testutil.CreatePlatform(t, db, "Playstation", "playstation")
	testutil.CreatePlatform(t, db, "Xbox", "xbox")

	renamed, err := platforms.Update(admin, ps.ID, "PlayStation")
	require.NoError(t, err)
	assert.Equal(t, "PlayStation", renamed.Name)
	assert.Equal(t, "playstation", renamed.Slug)

	_, err = platforms.Update(admin, ps.ID, "XBOX")
	assert.ErrorIs(t, err, service.ErrReferenceNameTaken)

	_, err = platforms.Update(admin, 999, "Dreamcast")
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestReferenceService_NameValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	genres := service.NewGenreService(repository.NewGenreRepository(db), access.NewFacade(), testutil.TestLogger())
	admin := testutil.Identity(testutil.CreateUser(t, db, "admin", models.RoleAdmin))

	for _, name := range []string{"", "   ", "!!!", strings.Repeat("a", 101)} {
		_, err := genres.Create(admin, name)
		assert.ErrorIs(t, err, access.ErrValidation, fmt.Sprintf("%q", name))
	}
}

func TestReferenceService_GetMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	genres := service.NewGenreService(repository.NewGenreRepository(db), access.NewFacade(), testutil.TestLogger())
	gamer := testutil.Identity(testutil.CreateUser(t, db, "alice", models.RoleGamer))

	_, err := genres.Get(gamer, 42)
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestReferenceService_DeactivatedCallerRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	genres := service.NewGenreService(repository.NewGenreRepository(db), access.NewFacade(), testutil.TestLogger())
	admin := testutil.Identity(testutil.CreateUser(t, db, "admin", models.RoleAdmin))
	admin.Active = false

	_, _, err := genres.List(admin, 1)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}
