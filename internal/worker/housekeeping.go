package worker

import (
	"context"
	"log/slog"
	"time"
)

// TokenPurger removes refresh tokens that expired before now
type TokenPurger interface {
	DeleteExpiredTokens(now time.Time) (int64, error)
}

// PurgeExpiredTokens returns a job that deletes expired refresh tokens
func PurgeExpiredTokens(purger TokenPurger, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		deleted, err := purger.DeleteExpiredTokens(time.Now())
		if err != nil {
			return err
		}

		if deleted > 0 {
			logger.Info("🧹 [Housekeeping] Purged expired refresh tokens", "count", deleted)
		}
		return nil
	}
}
