// Package sessions provides database operations for finalized reading
// sessions.
package sessions

import (
	"time"

	"gorm.io/gorm"

	"github.com/openleaf/reader/internal/entities"
)

// Repository handles all reading-session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(session *entities.ReadingSession) error {
	return r.db.Create(session).Error
}

// GetRange lists sessions ordered by start time. An empty bookID
// matches all books; nil bounds are open. The range filters on session
// start, bounds inclusive.
func (r *Repository) GetRange(bookID string, dateFrom, dateTo *time.Time) ([]entities.ReadingSession, error) {
	var sessions []entities.ReadingSession
	q := r.db.Order("start_time ASC")
	if bookID != "" {
		q = q.Where("book_id = ?", bookID)
	}
	if dateFrom != nil {
		q = q.Where("start_time >= ?", *dateFrom)
	}
	if dateTo != nil {
		q = q.Where("start_time <= ?", *dateTo)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}
