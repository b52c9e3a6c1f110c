// Package progress provides database operations for reading-progress
// records, one per book.
package progress

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles all reading-progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save creates or overwrites the progress record for its book.
func (r *Repository) Save(progress *entities.ReadingProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}},
		UpdateAll: true,
	}).Create(progress).Error
}

// GetByBook retrieves the progress record for a book. Returns
// (nil, nil) when absent.
func (r *Repository) GetByBook(bookID string) (*entities.ReadingProgress, error) {
	var progress entities.ReadingProgress
	err := r.db.Where("book_id = ?", bookID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *Repository) GetAll() ([]entities.ReadingProgress, error) {
	var records []entities.ReadingProgress
	err := r.db.Find(&records).Error
	return records, err
}

func (r *Repository) Delete(bookID string) error {
	return r.db.Where("book_id = ?", bookID).Delete(&entities.ReadingProgress{}).Error
}
