package entities

import (
	"time"
)

// ReadingProgress is the single durable position record per book.
// Location is the engine's opaque position token; Percentage is always
// stored in [0,100].
type ReadingProgress struct {
	BookID         string     `gorm:"primaryKey;size:36" json:"book_id"`
	Location       string     `gorm:"size:512" json:"location"`
	Percentage     float64    `json:"percentage"`
	CurrentPage    int        `json:"current_page"`
	TotalPages     int        `json:"total_pages"`
	CurrentChapter string     `gorm:"size:512" json:"current_chapter,omitempty"`
	ReadingTime    int64      `json:"reading_time"` // seconds within the open session
	SessionStart   *time.Time `json:"session_start,omitempty"`
	LastUpdated    time.Time  `json:"last_updated"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// ReadingSession is one finalized open-to-close reading interval.
// Duration is in seconds and always equals EndTime-StartTime rounded
// down.
type ReadingSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    string    `gorm:"index;size:36" json:"book_id"`
	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	PagesRead int       `json:"pages_read"`
	Duration  int64     `json:"duration"`
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}
