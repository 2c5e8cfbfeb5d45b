package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// IdentityService resolves the identity snapshot of an authenticated caller
type IdentityService interface {
	Resolve(ctx context.Context, userID uint) (access.Identity, error)
	Invalidate(userID uint)
}

const cacheInvalidateTimeout = 2 * time.Second

type identityService struct {
	userRepo repository.UserRepository
	cache    database.IdentityCache
	logger   *slog.Logger
}

// NewIdentityService creates a new identity service. cache may be nil, in which case
// every lookup goes to the database.
func NewIdentityService(userRepo repository.UserRepository, cache database.IdentityCache, logger *slog.Logger) IdentityService {
	return &identityService{
		userRepo: userRepo,
		cache:    cache,
		logger:   logger,
	}
}

func (s *identityService) Resolve(ctx context.Context, userID uint) (access.Identity, error) {
	// The generation is read before the database so a concurrent Invalidate voids our write
	var generation int64
	cacheUsable := s.cache != nil
	if cacheUsable {
		cached, gen, err := s.cache.GetIdentity(ctx, userID)
		if err != nil {
			s.logger.Warn("⚠️ [IdentityService] Cache lookup failed, using database", "user_id", userID, "error", err)
			cacheUsable = false
		} else if cached != nil {
			return *cached, nil
		}
		generation = gen
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [IdentityService] Token subject no longer exists", "user_id", userID)
			return access.Identity{}, access.ErrUnauthenticated
		}
		s.logger.Error("❌ [IdentityService] Failed to load user", "user_id", userID, "error", err)
		return access.Identity{}, err
	}

	identity := access.IdentityFromUser(user)

	if cacheUsable {
		if err := s.cache.SetIdentity(ctx, identity, generation); err != nil {
			s.logger.Warn("⚠️ [IdentityService] Failed to cache identity", "user_id", userID, "error", err)
		}
	}

	return identity, nil
}

// Invalidate drops the cached snapshot after the account changed state
func (s *identityService) Invalidate(userID uint) {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheInvalidateTimeout)
	defer cancel()

	if err := s.cache.DeleteIdentity(ctx, userID); err != nil {
		s.logger.Error("❌ [IdentityService] Failed to invalidate identity", "user_id", userID, "error", err)
	}
}
