package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

// ReferenceHandler serves genres or platforms. Reads are open to any signed-in user,
// writes are admin only, and there is no delete route.
type ReferenceHandler[T repository.Reference] struct {
	service service.ReferenceService[T]
	key     string
	logger  *slog.Logger
}

// NewGenreHandler creates the handler mounted at /genres
func NewGenreHandler(genreService service.GenreService, logger *slog.Logger) *ReferenceHandler[models.Genre] {
	return &ReferenceHandler[models.Genre]{service: genreService, key: "genre", logger: logger}
}

// NewPlatformHandler creates the handler mounted at /platforms
func NewPlatformHandler(platformService service.PlatformService, logger *slog.Logger) *ReferenceHandler[models.Platform] {
	return &ReferenceHandler[models.Platform]{service: platformService, key: "platform", logger: logger}
}

// ReferenceRequest is the body of POST and PATCH on reference data
type ReferenceRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /genres and GET /platforms
func (h *ReferenceHandler[T]) List(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	page := parsePage(c)
	items, total, err := h.service.List(identity, page)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newListResponse(items, total, page))
}

// Get handles GET /genres/:id and GET /platforms/:id
func (h *ReferenceHandler[T]) Get(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(identity, id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{h.key: item})
}

// Create handles POST /genres and POST /platforms
func (h *ReferenceHandler[T]) Create(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	var req ReferenceRequest
	if !bindBody(c, h.logger, "ReferenceHandler", &req, "Name required") {
		return
	}

	item, err := h.service.Create(identity, req.Name)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{h.key: item})
}

// Update handles PATCH /genres/:id and PATCH /platforms/:id
func (h *ReferenceHandler[T]) Update(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReferenceRequest
	if !bindBody(c, h.logger, "ReferenceHandler", &req, "Name required") {
		return
	}

	item, err := h.service.Update(identity, id, req.Name)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{h.key: item})
}
