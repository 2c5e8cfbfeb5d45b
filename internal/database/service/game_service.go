package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// GameService defines the interface for personal game library operations
type GameService interface {
	CreateGame(actor access.Identity, input CreateGameInput) (*models.Game, error)
	GetGame(actor access.Identity, gameID uuid.UUID) (*models.Game, error)
	UpdateGame(actor access.Identity, gameID uuid.UUID, input UpdateGameInput) (*models.Game, error)
	DeleteGame(actor access.Identity, gameID uuid.UUID) error
	ListGames(actor access.Identity, params map[string]string, page int) ([]models.Game, int64, error)
}

// CreateGameInput holds the fields of a new library entry. An empty status means WISHLIST.
type CreateGameInput struct {
	Title       string
	PlatformID  uint
	GenreID     uint
	Status      string
	HoursPlayed int
	Rating      *int
	Notes       string
}

// UpdateGameInput holds a partial update; nil pointers and unset optionals are left unchanged
type UpdateGameInput struct {
	Title       *string
	PlatformID  *uint
	GenreID     *uint
	Status      *string
	HoursPlayed *int
	Rating      Optional[int]
	Notes       *string
}

type gameService struct {
	gameRepo     repository.GameRepository
	genreRepo    repository.GenreRepository
	platformRepo repository.PlatformRepository
	facade       *access.Facade
	logger       *slog.Logger
	now          func() time.Time
}

// NewGameService creates a new game service instance
func NewGameService(
	gameRepo repository.GameRepository,
	genreRepo repository.GenreRepository,
	platformRepo repository.PlatformRepository,
	facade *access.Facade,
	logger *slog.Logger,
) GameService {
	return &gameService{
		gameRepo:     gameRepo,
		genreRepo:    genreRepo,
		platformRepo: platformRepo,
		facade:       facade,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *gameService) CreateGame(actor access.Identity, input CreateGameInput) (*models.Game, error) {
	s.logger.Info("🎮 [GameService] Creating game", "owner_id", actor.UserID, "title", input.Title)

	// The owner always comes from the caller, never from the request body
	game := &models.Game{OwnerID: actor.UserID}

	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   access.ActionCreate,
		Kind:     access.KindGame,
		Game:     game,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [GameService] Create denied", "actor_id", actor.UserID, "decision", decision)
		return nil, decision.Err()
	}

	status := models.GameStatusWishlist
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := models.ParseGameStatus(input.Status)
		if err != nil {
			return nil, access.NewValidationError("status", "must be one of WISHLIST, PLAYING, COMPLETED, DROPPED")
		}
		status = parsed
	}

	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := validateHours(input.HoursPlayed); err != nil {
		return nil, err
	}
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if err := validateNotes(input.Notes); err != nil {
		return nil, err
	}
	if err := s.validateReferences(input.GenreID, input.PlatformID); err != nil {
		return nil, err
	}

	game.Title = title
	game.GenreID = input.GenreID
	game.PlatformID = input.PlatformID
	game.HoursPlayed = input.HoursPlayed
	game.Rating = input.Rating
	game.Notes = input.Notes
	game.SetStatus(status, s.now())

	if err := s.gameRepo.Create(game); err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return nil, access.NewValidationError("genre_id", "genre or platform does not exist")
		}
		s.logger.Error("❌ [GameService] Failed to create game", "owner_id", actor.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [GameService] Game created", "game_id", game.ID, "owner_id", game.OwnerID)
	return game, nil
}

func (s *gameService) GetGame(actor access.Identity, gameID uuid.UUID) (*models.Game, error) {
	return s.authorizedGame(actor, access.ActionView, gameID)
}

func (s *gameService) UpdateGame(actor access.Identity, gameID uuid.UUID, input UpdateGameInput) (*models.Game, error) {
	s.logger.Info("✏️ [GameService] Updating game", "actor_id", actor.UserID, "game_id", gameID)

	game, err := s.authorizedGame(actor, access.ActionUpdate, gameID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		game.Title = title
	}
	if input.HoursPlayed != nil {
		if err := validateHours(*input.HoursPlayed); err != nil {
			return nil, err
		}
		game.HoursPlayed = *input.HoursPlayed
	}
	if input.Rating.Set {
		if err := validateRating(input.Rating.Value); err != nil {
			return nil, err
		}
		game.Rating = input.Rating.Value
	}
	if input.Notes != nil {
		if err := validateNotes(*input.Notes); err != nil {
			return nil, err
		}
		game.Notes = *input.Notes
	}

	genreID, platformID := game.GenreID, game.PlatformID
	if input.GenreID != nil {
		genreID = *input.GenreID
	}
	if input.PlatformID != nil {
		platformID = *input.PlatformID
	}
	if input.GenreID != nil || input.PlatformID != nil {
		if err := s.validateReferences(genreID, platformID); err != nil {
			return nil, err
		}
		game.GenreID = genreID
		game.PlatformID = platformID
	}

	if input.Status != nil {
		status, err := models.ParseGameStatus(*input.Status)
		if err != nil {
			return nil, access.NewValidationError("status", "must be one of WISHLIST, PLAYING, COMPLETED, DROPPED")
		}
		game.SetStatus(status, s.now())
	}

	if err := s.gameRepo.Update(game); err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return nil, access.NewValidationError("genre_id", "genre or platform does not exist")
		}
		s.logger.Error("❌ [GameService] Failed to update game", "game_id", gameID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [GameService] Game updated", "game_id", gameID)
	return game, nil
}

func (s *gameService) DeleteGame(actor access.Identity, gameID uuid.UUID) error {
	s.logger.Info("🗑️ [GameService] Deleting game", "actor_id", actor.UserID, "game_id", gameID)

	if _, err := s.authorizedGame(actor, access.ActionDelete, gameID); err != nil {
		return err
	}

	if err := s.gameRepo.Delete(gameID); err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return access.ErrNotFound
		}
		s.logger.Error("❌ [GameService] Failed to delete game", "game_id", gameID, "error", err)
		return err
	}

	s.logger.Info("✅ [GameService] Game deleted", "game_id", gameID)
	return nil
}

func (s *gameService) ListGames(actor access.Identity, params map[string]string, page int) ([]models.Game, int64, error) {
	decision, predicate := s.facade.AuthorizeGameList(actor, params)
	if decision.Denied() {
		return nil, 0, decision.Err()
	}

	games, total, err := s.gameRepo.List(predicate, config.Offset(page), config.PageSize)
	if err != nil {
		s.logger.Error("❌ [GameService] Failed to list games", "owner_id", actor.UserID, "error", err)
		return nil, 0, err
	}

	return games, total, nil
}

// authorizedGame loads a game and checks action against it. Games owned by someone
// else are reported as missing so their existence does not leak.
func (s *gameService) authorizedGame(actor access.Identity, action access.Action, gameID uuid.UUID) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		s.logger.Error("❌ [GameService] Failed to find game", "game_id", gameID, "error", err)
		return nil, err
	}

	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   action,
		Kind:     access.KindGame,
		Game:     game,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [GameService] Access denied", "actor_id", actor.UserID, "game_id", gameID, "action", action, "decision", decision)
		if decision.Reason == access.ReasonForbidden && game != nil && game.OwnerID != actor.UserID {
			return nil, access.ErrNotFound
		}
		return nil, decision.Err()
	}

	return game, nil
}

func (s *gameService) validateReferences(genreID, platformID uint) error {
	exists, err := s.genreRepo.Exists(genreID)
	if err != nil {
		return err
	}
	if !exists {
		return access.NewValidationError("genre_id", "genre %d does not exist", genreID)
	}

	exists, err = s.platformRepo.Exists(platformID)
	if err != nil {
		return err
	}
	if !exists {
		return access.NewValidationError("platform_id", "platform %d does not exist", platformID)
	}

	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", access.NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(title) > config.TitleMaxLength {
		return "", access.NewValidationError("title", "must be at most %d characters", config.TitleMaxLength)
	}
	return title, nil
}

func validateHours(hours int) error {
	if hours < 0 {
		return access.NewValidationError("hours_played", "must not be negative")
	}
	return nil
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < config.RatingMin || *rating > config.RatingMax) {
		return access.NewValidationError("rating", "must be between %d and %d", config.RatingMin, config.RatingMax)
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > config.NotesMaxLength {
		return access.NewValidationError("notes", "must be at most %d characters", config.NotesMaxLength)
	}
	return nil
}
