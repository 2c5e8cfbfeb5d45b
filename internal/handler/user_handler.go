package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

// UserHandler handles the caller's own account under /users/me
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// UpdateProfileRequest is the body of PATCH /users/me and PATCH /users/:id
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest is the body of POST /users/me/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(identity, identity.UserID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PATCH /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindBody(c, h.logger, "UserHandler", &req, "Invalid request body") {
		return
	}

	user, err := h.userService.UpdateProfile(identity, identity.UserID, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles POST /users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindBody(c, h.logger, "UserHandler", &req, "Current password and new password (min 8 chars) required") {
		return
	}

	if err := h.userService.ChangePassword(identity, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed, please sign in again"})
}

// DeleteAccount handles DELETE /users/me
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	identity, ok := currentIdentity(c, h.logger)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(identity, identity.UserID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
