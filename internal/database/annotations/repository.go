// Package annotations provides database operations for highlights,
// notes and bookmarks.
package annotations

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles all annotation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new annotations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(annotation *entities.Annotation) error {
	return r.db.Create(annotation).Error
}

// GetByID retrieves an annotation by id. Returns (nil, nil) when
// absent.
func (r *Repository) GetByID(id string) (*entities.Annotation, error) {
	var annotation entities.Annotation
	err := r.db.Where("id = ?", id).First(&annotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &annotation, nil
}

// GetByBook lists a book's annotations, optionally filtered by type,
// oldest first.
func (r *Repository) GetByBook(bookID string, annotationType entities.AnnotationType) ([]entities.Annotation, error) {
	var annotations []entities.Annotation
	q := r.db.Where("book_id = ?", bookID)
	if annotationType != "" {
		q = q.Where("type = ?", annotationType)
	}
	err := q.Order("created_at ASC").Find(&annotations).Error
	return annotations, err
}

func (r *Repository) Update(id string, updates map[string]any) error {
	return r.db.Model(&entities.Annotation{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Annotation{}).Error
}

// DeleteByBook removes every annotation attached to a book.
func (r *Repository) DeleteByBook(bookID string) error {
	return r.db.Where("book_id = ?", bookID).Delete(&entities.Annotation{}).Error
}

// CountByBook returns the number of annotations attached to a book.
func (r *Repository) CountByBook(bookID string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Annotation{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
