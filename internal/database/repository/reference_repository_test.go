package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/testutil"
)

func newGenre(name, slug string) *models.Genre {
	return &models.Genre{ReferenceData: models.ReferenceData{Name: name, Slug: slug}}
}

func TestReferenceRepository_CreateAndFind(t *testing.T) {
	repo := repository.NewGenreRepository(testutil.NewTestDB(t))

	genre := newGenre("Action RPG", "action-rpg")
	require.NoError(t, repo.Create(genre))
	assert.NotZero(t, genre.ID)

	byID, err := repo.FindByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Action RPG", byID.Name)

	bySlug, err := repo.FindBySlug("action-rpg")
	require.NoError(t, err)
	assert.Equal(t, genre.ID, bySlug.ID)

	_, err = repo.FindByID(99)
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)

	_, err = repo.FindBySlug("missing")
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
}

func TestReferenceRepository_DuplicateSlug(t *testing.T) {
	repo := repository.NewGenreRepository(testutil.NewTestDB(t))
	require.NoError(t, repo.Create(newGenre("Shooter", "shooter")))

	assert.ErrorIs(t, repo.Create(newGenre("SHOOTER", "shooter")), repository.ErrReferenceExists)

	other := newGenre("Puzzle", "puzzle")
	require.NoError(t, repo.Create(other))
	other.Slug = "shooter"
	assert.ErrorIs(t, repo.Update(other), repository.ErrReferenceExists)
}

func TestReferenceRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPlatformRepository(db)
	platform := testutil.CreatePlatform(t, db, "Playstation", "playstation")

	platform.Name = "PlayStation 5"
	platform.Slug = "playstation-5"
	require.NoError(t, repo.Update(platform))

	found, err := repo.FindByID(platform.ID)
	require.NoError(t, err)
	assert.Equal(t, "PlayStation 5", found.Name)
	assert.Equal(t, "playstation-5", found.Slug)
}

func TestReferenceRepository_ListSortedByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPlatformRepository(db)
	testutil.CreatePlatform(t, db, "Switch", "switch")
	testutil.CreatePlatform(t, db, "PC", "pc")
	testutil.CreatePlatform(t, db, "Xbox", "xbox")

	platforms, total, err := repo.List(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, platforms, 2)
	assert.Equal(t, "PC", platforms[0].Name)
	assert.Equal(t, "Switch", platforms[1].Name)

	rest, _, err := repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "Xbox", rest[0].Name)
}

func TestReferenceRepository_Exists(t *testing.T) {
	db := testutil.NewTestDB(t)
	genres := repository.NewGenreRepository(db)
	platforms := repository.NewPlatformRepository(db)
	genre := testutil.CreateGenre(t, db, "RPG", "rpg")

	ok, err := genres.Exists(genre.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Genres and platforms live in separate tables
	ok, err = platforms.Exists(genre.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
