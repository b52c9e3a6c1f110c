package entities

import (
	"time"
)

// Collection is a user-curated, ordered list of books.
type Collection struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"index;size:256" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	BookIDs     []string  `gorm:"serializer:json" json:"book_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Collection) TableName() string {
	return "collections"
}
