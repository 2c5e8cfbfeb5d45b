package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/middleware"
)

// Error codes returned in the "code" field of error bodies
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeAdminProtected    = "ADMIN_PROTECTED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeIncorrectPassword = "INCORRECT_PASSWORD"
	CodeInternal          = "INTERNAL"
)

// handleServiceError maps service and access errors to HTTP responses
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr *access.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
			"code":  CodeValidation,
		})
	case errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect", "code": CodeIncorrectPassword})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "code": CodeUnauthenticated})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, repository.ErrTokenNotFound), errors.Is(err, repository.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": CodeUnauthenticated})
	case errors.Is(err, access.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": CodeUnauthenticated})
	case errors.Is(err, access.ErrAdminProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot be deleted", "code": CodeAdminProtected})
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to do this", "code": CodeForbidden})
	case errors.Is(err, access.ErrNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrReferenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "code": CodeNotFound})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "code": CodeConflict})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken", "code": CodeConflict})
	case errors.Is(err, service.ErrReferenceNameTaken), errors.Is(err, repository.ErrReferenceExists):
		c.JSON(http.StatusConflict, gin.H{"error": "An entry with this name already exists", "code": CodeConflict})
	case errors.Is(err, repository.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use", "code": CodeConflict})
	default:
		logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": CodeInternal})
	}
}

// badRequest answers a malformed request that never reached a service
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": CodeValidation})
}

// bindBody decodes the JSON body into req, answering 400 with hint when it does not validate
func bindBody(c *gin.Context, logger *slog.Logger, component string, req interface{}, hint string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("⚠️ ["+component+"] Invalid request body",
			"path", c.FullPath(),
			"client_ip", c.ClientIP(),
			"error", err,
		)
		badRequest(c, hint)
		return false
	}
	return true
}

// currentIdentity returns the identity set by the auth middleware, answering 401 when absent
func currentIdentity(c *gin.Context, logger *slog.Logger) (access.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		logger.Error("❌ [Handler] Identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": CodeUnauthenticated})
		return access.Identity{}, false
	}
	return identity, true
}

// parseIDParam reads a numeric path parameter, answering 400 when it is malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads the 1-based page query parameter; anything unusable means the first page
// and anything past config.MaxPage means the last addressable one
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return config.ClampPage(page)
}

// ListResponse is the envelope of every paginated endpoint
type ListResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func newListResponse(data interface{}, total int64, page int) ListResponse {
	return ListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   config.PageSize,
		TotalPages: config.TotalPages(total),
	}
}
