package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/api"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/service"
	internalgrpc "github.com/EgehanKilicarslan/gamevault/backend-go/internal/grpc"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/worker"
)

const (
	shutdownTimeout   = 15 * time.Second
	housekeepingLimit = 2 * time.Minute
	healthCheckLimit  = 5 * time.Second
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Game Vault API...",
		"environment", cfg.AppEnv,
		"http_port", cfg.ApiServicePort,
		"grpc_port", cfg.ApiGrpcPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	gameRepo := repository.NewGameRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	platformRepo := repository.NewPlatformRepository(db)

	// 5. Initialize Redis (identity cache + rate limiter)
	var identityCache database.IdentityCache
	var rateLimiter middleware.RateLimiter

	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Identities will be read from Postgres on every request")
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	} else {
		identityCache = redisClient
		rateLimiter = middleware.NewRateLimiter(redisClient.GetClient(), cfg.RateLimitPerMinute, appLogger)
		defer redisClient.Close()
	}
	defer rateLimiter.Close()

	// 6. Initialize Services
	facade := access.NewFacade()
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, appLogger)
	identityService := service.NewIdentityService(userRepo, identityCache, appLogger)
	userService := service.NewUserService(userRepo, refreshTokenRepo, identityService, facade, appLogger)
	gameService := service.NewGameService(gameRepo, genreRepo, platformRepo, facade, appLogger)
	genreService := service.NewGenreService(genreRepo, facade, appLogger)
	platformService := service.NewPlatformService(platformRepo, facade, appLogger)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := authService.EnsureAdmin(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			appLogger.Error("❌ Failed to bootstrap admin account", "error", err)
			os.Exit(1)
		}
	}
	if total, err := userRepo.Count(); err == nil {
		appLogger.Info("👥 Accounts on record", "count", total)
	}

	// 7. Initialize Handlers & Middleware
	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, appLogger),
		User:     handler.NewUserHandler(userService, appLogger),
		Admin:    handler.NewAdminHandler(userService, appLogger),
		Game:     handler.NewGameHandler(gameService, appLogger),
		Genre:    handler.NewGenreHandler(genreService, appLogger),
		Platform: handler.NewPlatformHandler(platformService, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, identityService, appLogger)

	// 8. Start gRPC Health Server
	healthServer := internalgrpc.NewHealthServer(func(ctx context.Context) error {
		return database.Ping(db.WithContext(ctx))
	}, appLogger)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.ApiGrpcPort))
	if err != nil {
		appLogger.Error("❌ Failed to listen for gRPC", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := healthServer.Serve(grpcListener); err != nil {
			appLogger.Error("❌ gRPC Server failed", "error", err)
		}
	}()

	// 9. Start Housekeeping
	pool := worker.NewPool(appLogger)
	scheduler := worker.NewScheduler(pool, appLogger)

	purgeTokens := worker.PurgeExpiredTokens(refreshTokenRepo, appLogger)
	if err := scheduler.Add("purge-refresh-tokens", cfg.HousekeepingSchedule, housekeepingLimit, purgeTokens); err != nil {
		appLogger.Error("❌ Invalid housekeeping schedule", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Add("health-check", "@every 30s", healthCheckLimit, healthServer.Refresh); err != nil {
		appLogger.Error("❌ Failed to schedule health check", "error", err)
		os.Exit(1)
	}
	scheduler.RunNow("health-check", healthCheckLimit, healthServer.Refresh)
	scheduler.Start()

	// 10. Setup Router
	r := api.SetupRouter(handlers, authMiddleware, rateLimiter, api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HealthCheck:    func() error { return database.Ping(db) },
		Logger:         appLogger,
	})

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("🛑 [Go] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	pool.Shutdown(shutdownTimeout)
	healthServer.Stop()

	appLogger.Info("👋 [Go] Shutdown complete")
}
