package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// UserService defines the interface for account management
type UserService interface {
	// Retrieval
	GetUser(actor access.Identity, userID uint) (*models.User, error)
	ListUsers(actor access.Identity, page int) ([]models.User, int64, error)

	// Profile
	UpdateProfile(actor access.Identity, userID uint, input UpdateProfileInput) (*models.User, error)
	ChangePassword(actor access.Identity, currentPassword, newPassword string) error

	// Lifecycle
	Deactivate(actor access.Identity, userID uint) (*models.User, error)
	Reactivate(actor access.Identity, userID uint) (*models.User, error)
	DeleteUser(actor access.Identity, userID uint) error
}

// UpdateProfileInput carries the editable profile fields; nil leaves a field unchanged
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	identities       IdentityService
	facade           *access.Facade
	logger           *slog.Logger
	now              func() time.Time
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	identities IdentityService,
	facade *access.Facade,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		identities:       identities,
		facade:           facade,
		logger:           logger,
		now:              time.Now,
	}
}

// ==================== Retrieval ====================

func (s *userService) GetUser(actor access.Identity, userID uint) (*models.User, error) {
	target, err := s.findTarget(userID)
	if err != nil {
		return nil, err
	}

	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   access.ActionView,
		Kind:     access.KindUser,
		User:     target,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] View denied", "actor_id", actor.UserID, "user_id", userID, "decision", decision)
		return nil, decision.Err()
	}

	return target, nil
}

func (s *userService) ListUsers(actor access.Identity, page int) ([]models.User, int64, error) {
	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   access.ActionList,
		Kind:     access.KindUser,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] User index denied", "actor_id", actor.UserID, "decision", decision)
		return nil, 0, decision.Err()
	}

	users, total, err := s.userRepo.List(config.Offset(page), config.PageSize)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to list users", "error", err)
		return nil, 0, err
	}

	return users, total, nil
}

// ==================== Profile ====================

func (s *userService) UpdateProfile(actor access.Identity, userID uint, input UpdateProfileInput) (*models.User, error) {
	s.logger.Info("✏️ [UserService] Updating profile", "actor_id", actor.UserID, "user_id", userID)

	target, err := s.findTarget(userID)
	if err != nil {
		return nil, err
	}

	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   access.ActionUpdate,
		Kind:     access.KindUser,
		User:     target,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] Profile update denied", "actor_id", actor.UserID, "user_id", userID, "decision", decision)
		return nil, decision.Err()
	}

	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		email = normalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	if err := checkAvailability(s.userRepo, s.logger, username, email, target.ID); err != nil {
		return nil, err
	}

	if username != "" {
		target.Username = username
	}
	if email != "" {
		target.Email = email
	}

	if err := s.userRepo.Update(target); err != nil {
		s.logger.Error("❌ [UserService] Failed to update profile", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UserService] Profile updated", "user_id", userID)
	return target, nil
}

// ChangePassword replaces the caller's own password and signs out every other session
func (s *userService) ChangePassword(actor access.Identity, currentPassword, newPassword string) error {
	s.logger.Info("🔑 [UserService] Password change", "user_id", actor.UserID)

	if d := actor.Authenticate(); d.Denied() {
		return d.Err()
	}

	user, err := s.findTarget(actor.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return access.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		s.logger.Warn("⚠️ [UserService] Current password mismatch", "user_id", actor.UserID)
		return ErrIncorrectPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
		return err
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("❌ [UserService] Failed to store password", "user_id", actor.UserID, "error", err)
		return err
	}

	s.revokeSessions(user.ID)

	s.logger.Info("✅ [UserService] Password changed", "user_id", actor.UserID)
	return nil
}

// ==================== Lifecycle ====================

func (s *userService) Deactivate(actor access.Identity, userID uint) (*models.User, error) {
	s.logger.Info("⏸️ [UserService] Deactivating user", "actor_id", actor.UserID, "user_id", userID)

	target, err := s.findTarget(userID)
	if err != nil {
		return nil, err
	}

	transition, decision := s.facade.Deactivate(actor, target)
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] Deactivation denied", "actor_id", actor.UserID, "user_id", userID, "decision", decision)
		return nil, decision.Err()
	}

	if !transition.Changed {
		s.logger.Info("ℹ️ [UserService] User already deactivated", "user_id", userID)
		return target, nil
	}

	if err := s.userRepo.SetActive(target.ID, false); err != nil {
		s.logger.Error("❌ [UserService] Failed to deactivate user", "user_id", userID, "error", err)
		return nil, err
	}
	target.IsActive = false

	s.revokeSessions(target.ID)

	s.logger.Info("✅ [UserService] User deactivated", "user_id", userID, "from", transition.From)
	return target, nil
}

func (s *userService) Reactivate(actor access.Identity, userID uint) (*models.User, error) {
	s.logger.Info("▶️ [UserService] Reactivating user", "actor_id", actor.UserID, "user_id", userID)

	target, err := s.findTarget(userID)
	if err != nil {
		return nil, err
	}

	transition, decision := s.facade.Reactivate(actor, target)
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] Reactivation denied", "actor_id", actor.UserID, "user_id", userID, "decision", decision)
		return nil, decision.Err()
	}

	if !transition.Changed {
		s.logger.Info("ℹ️ [UserService] User already active", "user_id", userID)
		return target, nil
	}

	if err := s.userRepo.SetActive(target.ID, true); err != nil {
		s.logger.Error("❌ [UserService] Failed to reactivate user", "user_id", userID, "error", err)
		return nil, err
	}
	target.IsActive = true

	s.identities.Invalidate(target.ID)

	s.logger.Info("✅ [UserService] User reactivated", "user_id", userID)
	return target, nil
}

func (s *userService) DeleteUser(actor access.Identity, userID uint) error {
	s.logger.Info("🗑️ [UserService] Deleting user", "actor_id", actor.UserID, "user_id", userID)

	target, err := s.findTarget(userID)
	if err != nil {
		return err
	}

	transition, decision := s.facade.SoftDelete(actor, target, s.now())
	if decision.Denied() {
		s.logger.Warn("⚠️ [UserService] Deletion denied", "actor_id", actor.UserID, "user_id", userID, "decision", decision)
		return decision.Err()
	}

	if err := s.userRepo.SoftDelete(target.ID, *transition.DeletedAt); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return access.ErrNotFound
		}
		s.logger.Error("❌ [UserService] Failed to delete user", "user_id", userID, "error", err)
		return err
	}

	s.revokeSessions(target.ID)

	s.logger.Info("✅ [UserService] User soft deleted", "user_id", userID, "from", transition.From)
	return nil
}

// findTarget loads an account; a missing or soft-deleted account yields nil without error
func (s *userService) findTarget(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Error("❌ [UserService] Failed to find user", "user_id", userID, "error", err)
		return nil, err
	}
	return user, nil
}

// revokeSessions signs the account out everywhere and drops its cached identity
func (s *userService) revokeSessions(userID uint) {
	if err := s.refreshTokenRepo.RevokeAllUserTokens(userID); err != nil {
		s.logger.Error("❌ [UserService] Failed to revoke refresh tokens", "user_id", userID, "error", err)
	}
	s.identities.Invalidate(userID)
}

// Service errors
var (
	ErrIncorrectPassword = errors.New("current password is incorrect")
)
