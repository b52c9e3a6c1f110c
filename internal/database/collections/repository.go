// Package collections provides database operations for user-curated
// book collections.
package collections

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles all collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collections repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(collection *entities.Collection) error {
	return r.db.Create(collection).Error
}

// GetByID retrieves a collection by id. Returns (nil, nil) when
// absent.
func (r *Repository) GetByID(id string) (*entities.Collection, error) {
	var collection entities.Collection
	err := r.db.Where("id = ?", id).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *Repository) GetAll() ([]entities.Collection, error) {
	var collections []entities.Collection
	err := r.db.Order("name ASC").Find(&collections).Error
	return collections, err
}

// Save overwrites a collection record. Used for membership changes
// since the book id list is stored as one serialized column.
func (r *Repository) Save(collection *entities.Collection) error {
	return r.db.Save(collection).Error
}

func (r *Repository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Collection{}).Error
}
