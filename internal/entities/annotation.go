package entities

import (
	"time"
)

type AnnotationType string

const (
	AnnotationTypeHighlight AnnotationType = "highlight"
	AnnotationTypeNote      AnnotationType = "note"
	AnnotationTypeBookmark  AnnotationType = "bookmark"
)

type HighlightColor string

const (
	HighlightColorYellow HighlightColor = "yellow"
	HighlightColorGreen  HighlightColor = "green"
	HighlightColorBlue   HighlightColor = "blue"
	HighlightColorPink   HighlightColor = "pink"
	HighlightColorPurple HighlightColor = "purple"
)

// Annotation is a highlight, note or bookmark anchored to a location
// token inside a book. Highlights additionally carry a range token and
// the selected text; bookmarks only an optional label.
type Annotation struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	BookID        string         `gorm:"index;size:36" json:"book_id"`
	Type          AnnotationType `gorm:"index;size:20" json:"type"`
	Location      string         `gorm:"size:512" json:"location"`
	LocationRange string         `gorm:"size:1024" json:"location_range,omitempty"`
	Content       string         `gorm:"type:text" json:"content,omitempty"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
	Label         string         `gorm:"size:256" json:"label,omitempty"`
	Color         HighlightColor `gorm:"size:20" json:"color,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Annotation) TableName() string {
	return "annotations"
}
