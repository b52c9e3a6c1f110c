package entities

import (
	"time"
)

type BookStatus string

const (
	BookStatusNotStarted BookStatus = "not_started"
	BookStatusReading    BookStatus = "reading"
	BookStatusFinished   BookStatus = "finished"
)

// ValidBookStatus reports whether s is one of the known reading statuses.
func ValidBookStatus(s BookStatus) bool {
	switch s {
	case BookStatusNotStarted, BookStatusReading, BookStatusFinished:
		return true
	}
	return false
}

type Book struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Title           string     `gorm:"index;size:512" json:"title"`
	Author          string     `gorm:"index;size:256" json:"author"`
	Publisher       string     `gorm:"size:256" json:"publisher,omitempty"`
	ISBN            string     `gorm:"index;size:20" json:"isbn,omitempty"`
	Language        string     `gorm:"size:32" json:"language,omitempty"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	CoverURL        string     `gorm:"size:2048" json:"cover_url,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	FileSize        int64      `json:"file_size"`
	PageCount       int        `json:"page_count,omitempty"`
	WordCount       int        `json:"word_count,omitempty"`
	Tags            []string   `gorm:"serializer:json" json:"tags,omitempty"`
	Status          BookStatus `gorm:"index;size:20" json:"status"`
	DateAdded       time.Time  `json:"date_added"`
	LastOpened      *time.Time `json:"last_opened,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookFile holds the packaged EPUB binary for a book. Kept in its own
// table so library listings never load the blob.
type BookFile struct {
	BookID    string    `gorm:"primaryKey;size:36" json:"book_id"`
	Data      []byte    `gorm:"type:blob" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (BookFile) TableName() string {
	return "book_files"
}
