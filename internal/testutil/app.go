package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/api"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/middleware"
)

// Endpoints
const (
	APIBaseURL          = "/api/v1"
	HealthCheckEndpoint = APIBaseURL + "/health"
	RegisterEndpoint    = APIBaseURL + "/auth/register"
	LoginEndpoint       = APIBaseURL + "/auth/login"
	RefreshEndpoint     = APIBaseURL + "/auth/refresh"
	LogoutEndpoint      = APIBaseURL + "/auth/logout"
	MeEndpoint          = APIBaseURL + "/users/me"
	PasswordEndpoint    = APIBaseURL + "/users/me/password"
	UsersEndpoint       = APIBaseURL + "/users"
	GamesEndpoint       = APIBaseURL + "/games"
	GenresEndpoint      = APIBaseURL + "/genres"
	PlatformsEndpoint   = APIBaseURL + "/platforms"
)

// App is the fully wired HTTP stack over an in-memory database
type App struct {
	DB     *gorm.DB
	Router *gin.Engine
	Auth   service.AuthService
}

// NewApp wires repositories, services, handlers and the router the way the server does,
// without Redis and with rate limiting disabled
func NewApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	logger := TestLogger()
	db := NewTestDB(t)

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	gameRepo := repository.NewGameRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	platformRepo := repository.NewPlatformRepository(db)

	facade := access.NewFacade()
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger)
	identityService := service.NewIdentityService(userRepo, nil, logger)
	userService := service.NewUserService(userRepo, refreshTokenRepo, identityService, facade, logger)
	gameService := service.NewGameService(gameRepo, genreRepo, platformRepo, facade, logger)

	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		User:     handler.NewUserHandler(userService, logger),
		Admin:    handler.NewAdminHandler(userService, logger),
		Game:     handler.NewGameHandler(gameService, logger),
		Genre:    handler.NewGenreHandler(service.NewGenreService(genreRepo, facade, logger), logger),
		Platform: handler.NewPlatformHandler(service.NewPlatformService(platformRepo, facade, logger), logger),
	}

	router := api.SetupRouter(
		handlers,
		middleware.NewAuthMiddleware(authService, identityService, logger),
		middleware.NewNoOpRateLimiter(logger),
		api.RouterOptions{AllowedOrigins: cfg.CORSAllowedOrigins, Logger: logger},
	)

	return &App{DB: db, Router: router, Auth: authService}
}
