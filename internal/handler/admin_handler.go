package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

// AdminHandler handles account management by id. Admins manage gamer accounts;
// every rule is decided by the access layer, so a user addressing their own id works too.
type AdminHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService service.UserService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers handles GET /users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	page := parsePage(c)
	users, total, err := h.userService.ListUsers(identity, page)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newListResponse(users, total, page))
}

// GetUser handles GET /users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(identity, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles PATCH /users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindBody(c, h.logger, "AdminHandler", &req, "Invalid request body") {
		return
	}

	h.logger.Info("📊 [AdminHandler] Updating user", "actor_id", identity.UserID, "user_id", userID)

	user, err := h.userService.UpdateProfile(identity, userID, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeactivateUser handles POST /users/:id/deactivate
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(identity, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated", "user": user})
}

// ReactivateUser handles POST /users/:id/reactivate
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Reactivate(identity, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User reactivated", "user": user})
}

// DeleteUser handles DELETE /users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(identity, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
