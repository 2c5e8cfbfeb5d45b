package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
)

// Context keys set by RequireAuth
const (
	IdentityKey = "identity"
	UserIDKey   = "userID"
)

// AuthMiddleware handles JWT validation and identity resolution
type AuthMiddleware struct {
	service    service.AuthService
	identities service.IdentityService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, identities service.IdentityService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service:    service,
		identities: identities,
		logger:     logger,
	}
}

// RequireAuth validates the bearer token, loads the caller's identity and refuses
// deactivated or deleted accounts
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("⚠️ [Middleware] Missing Authorization header")
			abortUnauthenticated(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			abortUnauthenticated(c, "Invalid authorization header format")
			return
		}

		userID, err := m.service.ValidateAccessToken(parts[1])
		if err != nil {
			m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		identity, err := m.identities.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, access.ErrUnauthenticated) {
				abortUnauthenticated(c, "Account no longer exists")
				return
			}
			m.logger.Error("❌ [Middleware] Failed to resolve identity", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if d := identity.Authenticate(); d.Denied() {
			m.logger.Warn("⚠️ [Middleware] Inactive account", "user_id", userID)
			abortUnauthenticated(c, "Account is not active")
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(UserIDKey, userID)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", userID, "role", identity.Role)

		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireAuth
func GetIdentity(c *gin.Context) (access.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return access.Identity{}, false
	}
	identity, ok := value.(access.Identity)
	return identity, ok
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  string(access.ReasonUnauthenticated),
	})
}
