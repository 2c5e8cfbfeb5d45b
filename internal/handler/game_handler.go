package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

// GameHandler handles the caller's personal game library
type GameHandler struct {
	gameService service.GameService
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService service.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

// CreateGameRequest is the body of POST /games. The owner is never taken from the body.
type CreateGameRequest struct {
	Title       string `json:"title" binding:"required"`
	PlatformID  uint   `json:"platform_id" binding:"required"`
	GenreID     uint   `json:"genre_id" binding:"required"`
	Status      string `json:"status"`
	HoursPlayed int    `json:"hours_played"`
	Rating      *int   `json:"rating"`
	Notes       string `json:"notes"`
}

// UpdateGameRequest is the body of PATCH /games/:id. Send "rating": null to clear the rating.
type UpdateGameRequest struct {
	Title       *string               `json:"title"`
	PlatformID  *uint                 `json:"platform_id"`
	GenreID     *uint                 `json:"genre_id"`
	Status      *string               `json:"status"`
	HoursPlayed *int                  `json:"hours_played"`
	Rating      service.Optional[int] `json:"rating"`
	Notes       *string               `json:"notes"`
}

// listParams are the query parameters handed to the filter compiler
var listParams = []string{
	access.ParamSearch,
	access.ParamStatus,
	access.ParamGenre,
	access.ParamPlatform,
	access.ParamMinRating,
	access.ParamMinHours,
}

// ListGames handles GET /games
func (h *GameHandler) ListGames(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	query := c.Request.URL.Query()
	params := make(map[string]string, len(listParams))
	for _, key := range listParams {
		if values, exists := query[key]; exists {
			// Repeated keys behave like one comma-separated list
			params[key] = strings.Join(values, ",")
		}
	}

	page := parsePage(c)
	games, total, err := h.gameService.ListGames(identity, params, page)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newListResponse(games, total, page))
}

// CreateGame handles POST /games
func (h *GameHandler) CreateGame(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	var req CreateGameRequest
	if !bindBody(c, h.logger, "GameHandler", &req, "Invalid request. Title, platform_id and genre_id required.") {
		return
	}

	game, err := h.gameService.CreateGame(identity, service.CreateGameInput{
		Title:       req.Title,
		PlatformID:  req.PlatformID,
		GenreID:     req.GenreID,
		Status:      req.Status,
		HoursPlayed: req.HoursPlayed,
		Rating:      req.Rating,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": game})
}

// GetGame handles GET /games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	gameID, ok := h.parseGameID(c)
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(identity, gameID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

// UpdateGame handles PATCH /games/:id
func (h *GameHandler) UpdateGame(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	gameID, ok := h.parseGameID(c)
	if !ok {
		return
	}

	var req UpdateGameRequest
	if !bindBody(c, h.logger, "GameHandler", &req, "Invalid request body") {
		return
	}

	game, err := h.gameService.UpdateGame(identity, gameID, service.UpdateGameInput{
		Title:       req.Title,
		PlatformID:  req.PlatformID,
		GenreID:     req.GenreID,
		Status:      req.Status,
		HoursPlayed: req.HoursPlayed,
		Rating:      req.Rating,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

// DeleteGame handles DELETE /games/:id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	gameID, ok := h.parseGameID(c)
	if !ok {
		return
	}

	if err := h.gameService.DeleteGame(identity, gameID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseGameID reads the game UUID; a malformed id cannot name any game, so it is a 404
func (h *GameHandler) parseGameID(c *gin.Context) (uuid.UUID, bool) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "code": CodeNotFound})
		return uuid.Nil, false
	}
	return gameID, true
}
