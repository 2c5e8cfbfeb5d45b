package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupLimiter(t *testing.T, limit int64, now time.Time) (*miniredis.Miniredis, *redisRateLimiter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRateLimiter(client, limit, discardLogger()).(*redisRateLimiter)
	limiter.now = func() time.Time { return now }

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, limiter
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 30, 15, 0, time.UTC)
	mr, limiter := setupLimiter(t, 3, now)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		allowed, used, limit, err := limiter.Allow(ctx, 7)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, used)
		assert.Equal(t, int64(3), limit)
	}

	allowed, used, _, err := limiter.Allow(ctx, 7)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(4), used)

	// Counters are per user
	allowed, _, _, err = limiter.Allow(ctx, 8)
	require.NoError(t, err)
	assert.True(t, allowed)

	key := windowKey(7, now)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRedisRateLimiter_NewWindowResets(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 30, 15, 0, time.UTC)
	_, limiter := setupLimiter(t, 1, now)
	ctx := context.Background()

	allowed, _, _, _ := limiter.Allow(ctx, 1)
	assert.True(t, allowed)
	allowed, _, _, _ = limiter.Allow(ctx, 1)
	assert.False(t, allowed)

	limiter.now = func() time.Time { return now.Add(time.Minute) }
	allowed, used, _, err := limiter.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), used)
}

func TestRedisRateLimiter_Unlimited(t *testing.T) {
	mr, limiter := setupLimiter(t, 0, time.Now())

	allowed, used, limit, err := limiter.Allow(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, used)
	assert.Zero(t, limit)
	assert.Empty(t, mr.Keys())
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	mr, limiter := setupLimiter(t, 5, time.Now())
	mr.Close()

	allowed, _, _, err := limiter.Allow(context.Background(), 1)
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestNoOpRateLimiter(t *testing.T) {
	limiter := NewNoOpRateLimiter(discardLogger())

	for i := 0; i < 100; i++ {
		allowed, _, _, err := limiter.Allow(context.Background(), 1)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	assert.NoError(t, limiter.Close())
}

// ==================== GIN MIDDLEWARE ====================

func rateLimitedRouter(limiter RateLimiter, identity *access.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(IdentityKey, *identity)
		}
		c.Next()
	})
	router.Use(RateLimit(limiter, discardLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	_, limiter := setupLimiter(t, 2, time.Now())
	identity := &access.Identity{UserID: 3, Role: models.RoleGamer, Active: true}
	router := rateLimitedRouter(limiter, identity)

	for i, wantRemaining := range []string{"1", "0"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, wantRemaining, w.Header().Get("X-RateLimit-Remaining"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimitMiddleware_SkipsAnonymousRequests(t *testing.T) {
	mr, limiter := setupLimiter(t, 1, time.Now())
	router := rateLimitedRouter(limiter, nil)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Empty(t, mr.Keys())
}

func TestRateLimitMiddleware_NoHeadersWhenUnlimited(t *testing.T) {
	router := rateLimitedRouter(NewNoOpRateLimiter(discardLogger()), &access.Identity{UserID: 1, Role: models.RoleGamer, Active: true})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
