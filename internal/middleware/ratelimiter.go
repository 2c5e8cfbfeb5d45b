package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per user in fixed one-minute windows
type RateLimiter interface {
	// Allow records one request and reports whether it fits the window.
	// Returns: allowed bool, used int64, limit int64, error
	Allow(ctx context.Context, userID uint) (bool, int64, int64, error)

	// Close releases the limiter's resources
	Close() error
}

const rateWindow = time.Minute

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	logger *slog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a Redis-based rate limiter on a shared client
func NewRateLimiter(client *redis.Client, limit int64, logger *slog.Logger) RateLimiter {
	logger.Info("✅ [RateLimiter] Redis rate limiter ready", "limit_per_minute", limit)
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// windowKey generates the Redis key for the current window
// Format: rate:minute:{userID}:{unix minute}
func windowKey(userID uint, now time.Time) string {
	return fmt.Sprintf("rate:minute:%d:%d", userID, now.Unix()/int64(rateWindow.Seconds()))
}

func (r *redisRateLimiter) Allow(ctx context.Context, userID uint) (bool, int64, int64, error) {
	// If limit is 0 or negative, unlimited
	if r.limit <= 0 {
		return true, 0, 0, nil
	}

	key := windowKey(userID, r.now())

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateWindow)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment window count", "error", err, "user_id", userID)
		// On error, allow the request but log it
		return true, 0, r.limit, err
	}

	used := incr.Val()
	return used <= r.limit, used, r.limit, nil
}

func (r *redisRateLimiter) Close() error {
	return nil
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, userID uint) (bool, int64, int64, error) {
	return true, 0, 0, nil
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}

// RateLimit enforces the limiter for authenticated requests. It must run after RequireAuth.
func RateLimit(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.Next()
			return
		}

		allowed, used, limit, err := limiter.Allow(c.Request.Context(), identity.UserID)
		if err != nil {
			c.Next()
			return
		}

		if limit > 0 {
			remaining := limit - used
			if remaining < 0 {
				remaining = 0
			}
			c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			logger.Warn("⚠️ [RateLimiter] Rate limit exceeded", "user_id", identity.UserID, "used", used, "limit", limit)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please slow down",
				"code":  "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
