package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	ApiServicePort         string
	ApiGrpcPort            string
	PostgreSQLHost         string
	PostgreSQLPort         int64
	PostgreSQLUser         string
	PostgreSQLPassword     string
	PostgreSQLDatabase     string
	JWTSecret              string
	AccessTokenExpiration  int64
	RefreshTokenExpiration int64
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDB                int64
	IdentityCacheTTL       int64 // Identity snapshot TTL in seconds
	RateLimitPerMinute     int64 // Requests per user per minute, <= 0 disables
	CORSAllowedOrigins     []string
	HousekeepingSchedule   string // Seconds-precision cron expression
	AdminEmail             string
	AdminUsername          string
	AdminPassword          string
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	return &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),                      // Default development
		LogLevel:               getLogLevel(),                                         // Default INFO
		ApiServicePort:         getEnv("API_SERVICE_PORT", "8080"),                    // Default 8080
		ApiGrpcPort:            getEnv("API_GRPC_PORT", "50052"),                      // Default 50052 (health)
		PostgreSQLHost:         getEnv("POSTGRESQL_HOST", "db"),                       // Default db
		PostgreSQLPort:         getEnvAsInt64("POSTGRESQL_PORT", 5432),                // Default 5432
		PostgreSQLUser:         getEnv("POSTGRESQL_USER", "gamevault_user"),           // Default user
		PostgreSQLPassword:     getEnv("POSTGRESQL_PASSWORD", "gamevault_password"),   // Default password
		PostgreSQLDatabase:     getEnv("POSTGRESQL_DATABASE", "gamevault_db"),         // Default database name
		JWTSecret:              getEnv("JWT_SECRET", "gamevault_secret"),              // Default secret key
		AccessTokenExpiration:  getEnvAsInt64("ACCESS_TOKEN_EXPIRATION", 900),         // Default 15 minutes
		RefreshTokenExpiration: getEnvAsInt64("REFRESH_TOKEN_EXPIRATION", 604800),     // Default 7 days
		RedisHost:              getEnv("REDIS_HOST", "redis"),                         // Default redis
		RedisPort:              getEnvAsInt64("REDIS_PORT", 6379),                     // Default 6379
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),                          // Default empty
		RedisDB:                getEnvAsInt64("REDIS_DATABASE", 0),                    // Default 0
		IdentityCacheTTL:       getEnvAsInt64("IDENTITY_CACHE_TTL", 300),              // Default 5 minutes
		RateLimitPerMinute:     getEnvAsInt64("RATE_LIMIT_PER_MINUTE", 120),           // Default 120
		CORSAllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),   // Default any origin
		HousekeepingSchedule:   getEnv("HOUSEKEEPING_SCHEDULE", "0 0 * * * *"),        // Default hourly
		AdminEmail:             getEnv("ADMIN_EMAIL", ""),                             // Default no bootstrap admin
		AdminUsername:          getEnv("ADMIN_USERNAME", "admin"),                     // Default admin
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),                          // Default empty
	}
}

// DSN builds the PostgreSQL connection string shared by the server and the migration tool
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.AppEnv) == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	values := make([]string, 0)
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
