package service

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// ReferenceService defines the read-mostly operations on genres or platforms.
// There is no delete.
type ReferenceService[T repository.Reference] interface {
	List(actor access.Identity, page int) ([]T, int64, error)
	Get(actor access.Identity, id uint) (*T, error)
	Create(actor access.Identity, name string) (*T, error)
	Update(actor access.Identity, id uint, name string) (*T, error)
}

// GenreService manages genres
type GenreService = ReferenceService[models.Genre]

// PlatformService manages platforms
type PlatformService = ReferenceService[models.Platform]

// referenceModel lets generic code reach the shared columns of *Genre and *Platform
type referenceModel[T any] interface {
	*T
	Entry() *models.ReferenceData
}

type referenceService[T repository.Reference, P referenceModel[T]] struct {
	kind   access.ResourceKind
	repo   repository.ReferenceRepository[T]
	facade *access.Facade
	logger *slog.Logger
}

// NewGenreService creates a new genre service instance
func NewGenreService(repo repository.GenreRepository, facade *access.Facade, logger *slog.Logger) GenreService {
	return &referenceService[models.Genre, *models.Genre]{
		kind:   access.KindGenre,
		repo:   repo,
		facade: facade,
		logger: logger,
	}
}

// NewPlatformService creates a new platform service instance
func NewPlatformService(repo repository.PlatformRepository, facade *access.Facade, logger *slog.Logger) PlatformService {
	return &referenceService[models.Platform, *models.Platform]{
		kind:   access.KindPlatform,
		repo:   repo,
		facade: facade,
		logger: logger,
	}
}

func (s *referenceService[T, P]) List(actor access.Identity, page int) ([]T, int64, error) {
	if err := s.authorize(actor, access.ActionList); err != nil {
		return nil, 0, err
	}

	items, total, err := s.repo.List(config.Offset(page), config.PageSize)
	if err != nil {
		s.logger.Error("❌ [ReferenceService] Failed to list", "kind", s.kind, "error", err)
		return nil, 0, err
	}
	return items, total, nil
}

func (s *referenceService[T, P]) Get(actor access.Identity, id uint) (*T, error) {
	if err := s.authorize(actor, access.ActionView); err != nil {
		return nil, err
	}
	return s.find(id)
}

func (s *referenceService[T, P]) Create(actor access.Identity, name string) (*T, error) {
	s.logger.Info("🏷️ [ReferenceService] Creating entry", "kind", s.kind, "name", name)

	if err := s.authorize(actor, access.ActionCreate); err != nil {
		return nil, err
	}

	name, canonical, err := normalizeReferenceName(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(canonical, 0); err != nil {
		return nil, err
	}

	item := new(T)
	entry := P(item).Entry()
	entry.Name = name
	entry.Slug = canonical

	if err := s.repo.Create(item); err != nil {
		if errors.Is(err, repository.ErrReferenceExists) {
			return nil, ErrReferenceNameTaken
		}
		s.logger.Error("❌ [ReferenceService] Failed to create entry", "kind", s.kind, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ReferenceService] Entry created", "kind", s.kind, "id", entry.ID, "slug", entry.Slug)
	return item, nil
}

func (s *referenceService[T, P]) Update(actor access.Identity, id uint, name string) (*T, error) {
	s.logger.Info("✏️ [ReferenceService] Renaming entry", "kind", s.kind, "id", id, "name", name)

	if err := s.authorize(actor, access.ActionUpdate); err != nil {
		return nil, err
	}

	item, err := s.find(id)
	if err != nil {
		return nil, err
	}

	name, canonical, err := normalizeReferenceName(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(canonical, id); err != nil {
		return nil, err
	}

	entry := P(item).Entry()
	entry.Name = name
	entry.Slug = canonical

	if err := s.repo.Update(item); err != nil {
		if errors.Is(err, repository.ErrReferenceExists) {
			return nil, ErrReferenceNameTaken
		}
		s.logger.Error("❌ [ReferenceService] Failed to update entry", "kind", s.kind, "id", id, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ReferenceService] Entry renamed", "kind", s.kind, "id", id, "slug", entry.Slug)
	return item, nil
}

func (s *referenceService[T, P]) authorize(actor access.Identity, action access.Action) error {
	decision := s.facade.Authorize(access.Request{
		Identity: actor,
		Action:   action,
		Kind:     s.kind,
	})
	if decision.Denied() {
		s.logger.Warn("⚠️ [ReferenceService] Access denied", "kind", s.kind, "actor_id", actor.UserID, "action", action, "decision", decision)
		return decision.Err()
	}
	return nil
}

func (s *referenceService[T, P]) find(id uint) (*T, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, access.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// ensureSlugFree reports a conflict when another entry already uses canonical
func (s *referenceService[T, P]) ensureSlugFree(canonical string, selfID uint) error {
	existing, err := s.repo.FindBySlug(canonical)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil
		}
		return err
	}
	if P(existing).Entry().ID != selfID {
		s.logger.Warn("⚠️ [ReferenceService] Name already taken", "kind", s.kind, "slug", canonical)
		return ErrReferenceNameTaken
	}
	return nil
}

// normalizeReferenceName trims the display name and derives the slug that decides uniqueness
func normalizeReferenceName(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", access.NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > config.ReferenceNameMaxLength {
		return "", "", access.NewValidationError("name", "must be at most %d characters", config.ReferenceNameMaxLength)
	}

	canonical := slug.Make(name)
	if canonical == "" {
		return "", "", access.NewValidationError("name", "must contain at least one letter or digit")
	}
	return name, canonical, nil
}

// Service errors
var (
	ErrReferenceNameTaken = errors.New("an entry with this name already exists")
)
