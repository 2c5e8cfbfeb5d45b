package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

const bearerTokenType = "Bearer"

// AuthHandler serves the public /auth routes. Every account it creates is a gamer;
// admins only come from the bootstrap in cmd/server.
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// CredentialsRequest is the body of POST /auth/login
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionRequest names a session by its refresh token (refresh and logout)
type SessionRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SessionResponse carries a freshly issued token pair; User is set on register and login only
type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user,omitempty"`
}

func newSessionResponse(tokens *service.TokenPair, user *models.User) SessionResponse {
	return SessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    bearerTokenType,
		ExpiresIn:    tokens.ExpiresIn,
		User:         user,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindBody(c, h.logger, "AuthHandler", &req,
		"Invalid request. Username (3-50 chars), email, and password (min 8 chars) required.") {
		return
	}

	user, tokens, err := h.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(tokens, user))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !bindBody(c, h.logger, "AuthHandler", &req, "Invalid request. Email and password required.") {
		return
	}

	user, tokens, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(tokens, user))
}

// RefreshToken handles POST /auth/refresh. The presented token is spent.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req SessionRequest
	if !bindBody(c, h.logger, "AuthHandler", &req, "Refresh token required") {
		return
	}

	tokens, err := h.service.RefreshToken(req.RefreshToken)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(tokens, nil))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req SessionRequest
	if !bindBody(c, h.logger, "AuthHandler", &req, "Refresh token required") {
		return
	}

	if err := h.service.Logout(req.RefreshToken); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
