package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// Reference is the set of admin-managed lookup models
type Reference interface {
	models.Genre | models.Platform
}

// ReferenceRepository defines the data operations shared by genres and platforms.
// Reference rows are never deleted.
type ReferenceRepository[T Reference] interface {
	Create(item *T) error
	FindByID(id uint) (*T, error)
	FindBySlug(slug string) (*T, error)
	Update(item *T) error
	List(offset, limit int) ([]T, int64, error)
	Exists(id uint) (bool, error)
}

// GenreRepository stores genres
type GenreRepository = ReferenceRepository[models.Genre]

// PlatformRepository stores platforms
type PlatformRepository = ReferenceRepository[models.Platform]

type referenceRepository[T Reference] struct {
	db *gorm.DB
}

// NewGenreRepository creates a new genre repository instance
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &referenceRepository[models.Genre]{db: db}
}

// NewPlatformRepository creates a new platform repository instance
func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &referenceRepository[models.Platform]{db: db}
}

func (r *referenceRepository[T]) Create(item *T) error {
	if err := r.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReferenceExists
		}
		return err
	}
	return nil
}

func (r *referenceRepository[T]) FindByID(id uint) (*T, error) {
	var item T
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepository[T]) FindBySlug(slug string) (*T, error) {
	var item T
	if err := r.db.Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepository[T]) Update(item *T) error {
	if err := r.db.Save(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReferenceExists
		}
		return err
	}
	return nil
}

func (r *referenceRepository[T]) List(offset, limit int) ([]T, int64, error) {
	items := []T{}
	var total int64

	if err := r.db.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("name ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *referenceRepository[T]) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(new(T)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Repository errors
var (
	ErrReferenceNotFound = errors.New("reference entry not found")
	ErrReferenceExists   = errors.New("reference entry with this name already exists")
)
