package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
)

// RedisClient wraps the redis client with helper methods for identity snapshots
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDB,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return NewRedisClientWithClient(client, cfg, logger), nil
}

// NewRedisClientWithClient wraps an existing redis.Client (used by tests against miniredis)
func NewRedisClientWithClient(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		ttl:    time.Duration(cfg.IdentityCacheTTL) * time.Second,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// generationTTL outlives any Resolve that could still be holding an older generation
const generationTTL = 24 * time.Hour

// identityKey generates a Redis key for a user's identity snapshot
func identityKey(userID uint) string {
	return fmt.Sprintf("identity:%d", userID)
}

// generationKey counts invalidations of a user's snapshot
func generationKey(userID uint) string {
	return fmt.Sprintf("identity_gen:%d", userID)
}

// GetIdentity reads a cached snapshot and the current generation. A miss or a corrupt
// entry yields a nil snapshot; the generation is still returned for a later SetIdentity.
func (r *RedisClient) GetIdentity(ctx context.Context, userID uint) (*access.Identity, int64, error) {
	var identityCmd, generationCmd *redis.StringCmd
	_, _ = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		identityCmd = pipe.Get(ctx, identityKey(userID))
		generationCmd = pipe.Get(ctx, generationKey(userID))
		return nil
	})

	generation, err := generationCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("❌ [Redis] Failed to get identity generation",
			"user_id", userID,
			"error", err,
		)
		return nil, 0, err
	}

	data, err := identityCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, generation, nil
		}
		r.logger.Error("❌ [Redis] Failed to get identity",
			"user_id", userID,
			"error", err,
		)
		return nil, 0, err
	}

	var identity access.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		r.logger.Warn("⚠️ [Redis] Failed to unmarshal identity, dropping entry",
			"user_id", userID,
			"error", err,
		)
		r.client.Del(ctx, identityKey(userID))
		return nil, generation, nil
	}

	r.logger.Debug("📖 [Redis] Identity cache hit", "user_id", userID)

	return &identity, generation, nil
}

// SetIdentity stores a snapshot with the configured TTL, but only while the generation
// still equals the one read before the snapshot was loaded. A DeleteIdentity in between
// means the snapshot may predate the change, so it is discarded.
func (r *RedisClient) SetIdentity(ctx context.Context, identity access.Identity, generation int64) error {
	data, err := json.Marshal(identity)
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to marshal identity",
			"user_id", identity.UserID,
			"error", err,
		)
		return err
	}

	genKey := generationKey(identity.UserID)
	stale := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			stale = true
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, identityKey(identity.UserID), data, r.ttl)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		stale = true
		err = nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to set identity",
			"user_id", identity.UserID,
			"error", err,
		)
		return err
	}

	if stale {
		r.logger.Debug("⏭️ [Redis] Skipped stale identity", "user_id", identity.UserID)
		return nil
	}

	r.logger.Debug("💾 [Redis] Stored identity",
		"user_id", identity.UserID,
		"ttl", r.ttl,
	)

	return nil
}

// DeleteIdentity drops a snapshot and bumps the generation, so the next request reloads
// it from the database and writers holding the old generation cannot put it back
func (r *RedisClient) DeleteIdentity(ctx context.Context, userID uint) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Expire(ctx, generationKey(userID), generationTTL)
		pipe.Del(ctx, identityKey(userID))
		return nil
	})
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to delete identity",
			"user_id", userID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Deleted identity", "user_id", userID)

	return nil
}

// GetClient returns the underlying Redis client, shared with the rate limiter
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}
