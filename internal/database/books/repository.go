// Package books provides database operations for the book library.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles all book database operations, including the
// stored EPUB binaries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a book record together with its packaged file in one
// transaction.
func (r *Repository) Create(book *entities.Book, file []byte) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		return tx.Create(&entities.BookFile{BookID: book.ID, Data: file}).Error
	})
}

// GetByID retrieves a book by id. Returns (nil, nil) when absent.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAll returns every book ordered by the date it was added, newest
// first.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("date_added DESC").Find(&books).Error
	return books, err
}

// GetFile returns the stored EPUB binary. Returns (nil, nil) when no
// file is stored for the id.
func (r *Repository) GetFile(id string) ([]byte, error) {
	var file entities.BookFile
	err := r.db.Where("book_id = ?", id).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return file.Data, nil
}

// Update applies a partial column update to an existing book.
func (r *Repository) Update(id string, updates map[string]any) error {
	return r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a book and its stored file.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookFile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Book{}).Error
	})
}

// Search matches the query case-insensitively against title and
// author.
func (r *Repository) Search(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.
		Where("title LIKE ? COLLATE NOCASE OR author LIKE ? COLLATE NOCASE", pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// FileSizeTotal sums the stored binary sizes across the library.
func (r *Repository) FileSizeTotal() (int64, error) {
	var total int64
	err := r.db.Model(&entities.BookFile{}).
		Select("COALESCE(SUM(LENGTH(data)), 0)").
		Scan(&total).Error
	return total, err
}
