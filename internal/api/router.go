package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Admin    *handler.AdminHandler
	Game     *handler.GameHandler
	Genre    *handler.ReferenceHandler[models.Genre]
	Platform *handler.ReferenceHandler[models.Platform]
}

// RouterOptions carries the cross-cutting pieces of the HTTP stack
type RouterOptions struct {
	AllowedOrigins []string
	HealthCheck    func() error
	Logger         *slog.Logger
}

func SetupRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter middleware.RateLimiter,
	opts RouterOptions,
) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (Public)
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.RefreshToken)
		authGroup.POST("/logout", handlers.Auth.Logout)
	}

	// Protected API routes
	api := r.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	api.Use(middleware.RateLimit(rateLimiter, opts.Logger))
	{
		// Own account
		api.GET("/users/me", handlers.User.GetProfile)
		api.PATCH("/users/me", handlers.User.UpdateProfile)
		api.POST("/users/me/password", handlers.User.ChangePassword)
		api.DELETE("/users/me", handlers.User.DeleteAccount)

		// Account management
		api.GET("/users", handlers.Admin.ListUsers)
		api.GET("/users/:id", handlers.Admin.GetUser)
		api.PATCH("/users/:id", handlers.Admin.UpdateUser)
		api.POST("/users/:id/deactivate", handlers.Admin.DeactivateUser)
		api.POST("/users/:id/reactivate", handlers.Admin.ReactivateUser)
		api.DELETE("/users/:id", handlers.Admin.DeleteUser)

		// Personal library
		api.GET("/games", handlers.Game.ListGames)
		api.POST("/games", handlers.Game.CreateGame)
		api.GET("/games/:id", handlers.Game.GetGame)
		api.PATCH("/games/:id", handlers.Game.UpdateGame)
		api.DELETE("/games/:id", handlers.Game.DeleteGame)

		// Reference data
		api.GET("/genres", handlers.Genre.List)
		api.POST("/genres", handlers.Genre.Create)
		api.GET("/genres/:id", handlers.Genre.Get)
		api.PATCH("/genres/:id", handlers.Genre.Update)

		api.GET("/platforms", handlers.Platform.List)
		api.POST("/platforms", handlers.Platform.Create)
		api.GET("/platforms/:id", handlers.Platform.Get)
		api.PATCH("/platforms/:id", handlers.Platform.Update)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
