package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// GameRepository defines the interface for game library operations
type GameRepository interface {
	Create(game *models.Game) error
	FindByID(id uuid.UUID) (*models.Game, error)
	Update(game *models.Game) error
	Delete(id uuid.UUID) error
	// List returns one page of games matching the predicate, oldest first
	List(predicate access.GamePredicate, offset, limit int) ([]models.Game, int64, error)
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new game repository instance
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(game *models.Game) error {
	if err := r.db.Omit(clause.Associations).Create(game).Error; err != nil {
		return translateGameError(err)
	}
	return r.db.Preload("Genre").Preload("Platform").First(game, "id = ?", game.ID).Error
}

func (r *gameRepository) FindByID(id uuid.UUID) (*models.Game, error) {
	var game models.Game
	err := r.db.Preload("Genre").
		Preload("Platform").
		First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Update writes the editable columns of an existing game. The owner and creation time
// are never rewritten, and a game deleted in the meantime is not brought back.
func (r *gameRepository) Update(game *models.Game) error {
	result := r.db.Model(&models.Game{}).
		Where("id = ? AND owner_id = ?", game.ID, game.OwnerID).
		Select(editableGameColumns).
		Updates(map[string]interface{}{
			"title":        game.Title,
			"platform_id":  game.PlatformID,
			"genre_id":     game.GenreID,
			"status":       game.Status,
			"hours_played": game.HoursPlayed,
			"rating":       game.Rating,
			"notes":        game.Notes,
			"completed_at": game.CompletedAt,
		})

	if result.Error != nil {
		return translateGameError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return r.db.Preload("Genre").Preload("Platform").First(game, "id = ?", game.ID).Error
}

var editableGameColumns = []string{
	"title", "platform_id", "genre_id", "status", "hours_played", "rating", "notes", "completed_at",
}

func (r *gameRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Game{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *gameRepository) List(predicate access.GamePredicate, offset, limit int) ([]models.Game, int64, error) {
	games := []models.Game{}
	var total int64

	if predicate.Criteria.MatchesNothing() {
		return games, 0, nil
	}

	if err := r.db.Model(&models.Game{}).
		Scopes(GamesMatching(predicate)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(GamesMatching(predicate)).
		Preload("Genre").
		Preload("Platform").
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&games).Error

	return games, total, err
}

// GamesMatching translates a predicate into bound query conditions
func GamesMatching(predicate access.GamePredicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		c := predicate.Criteria

		db = db.Where("owner_id = ?", predicate.OwnerID)
		if c.MatchesNothing() {
			return db.Where("1 = 0")
		}
		if c.Search != "" {
			db = db.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(c.Search))+"%")
		}
		if c.Statuses != nil {
			statuses := make([]string, 0, len(c.Statuses))
			for _, status := range c.Statuses {
				statuses = append(statuses, string(status))
			}
			db = db.Where("status IN ?", statuses)
		}
		if c.GenreIDs != nil {
			db = db.Where("genre_id IN ?", c.GenreIDs)
		}
		if c.PlatformIDs != nil {
			db = db.Where("platform_id IN ?", c.PlatformIDs)
		}
		if c.MinRating != nil {
			db = db.Where("rating IS NOT NULL AND rating >= ?", *c.MinRating)
		}
		if c.MinHours != nil {
			db = db.Where("hours_played >= ?", *c.MinHours)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func translateGameError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrUnknownReference
	}
	return err
}

// Repository errors
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrUnknownReference = errors.New("referenced genre or platform does not exist")
)
