// Package storage declares the persistence port consumed by the reader
// core. Implementations decide the backing technology; the core never
// does.
package storage

import (
	"context"
	"time"

	"github.com/openleaf/reader/internal/entities"
)

// Store is the full persistence contract. All operations may fail;
// reliability and retries are the implementation's concern.
//
// Getters return (nil, nil) when the record does not exist, so callers
// can distinguish "absent" from "failed".
type Store interface {
	// Books
	SaveBook(ctx context.Context, book *entities.Book, file []byte) (string, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
	GetBookFile(ctx context.Context, id string) ([]byte, error)
	UpdateBook(ctx context.Context, id string, updates map[string]any) error
	DeleteBook(ctx context.Context, id string) error
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)

	// Annotations
	SaveAnnotation(ctx context.Context, annotation *entities.Annotation) (string, error)
	GetAnnotation(ctx context.Context, id string) (*entities.Annotation, error)
	GetAnnotations(ctx context.Context, bookID string, annotationType entities.AnnotationType) ([]entities.Annotation, error)
	UpdateAnnotation(ctx context.Context, id string, updates map[string]any) error
	DeleteAnnotation(ctx context.Context, id string) error
	DeleteAnnotationsByBook(ctx context.Context, bookID string) error

	// Reading progress
	SaveProgress(ctx context.Context, progress *entities.ReadingProgress) error
	GetProgress(ctx context.Context, bookID string) (*entities.ReadingProgress, error)
	GetAllProgress(ctx context.Context) ([]entities.ReadingProgress, error)
	DeleteProgress(ctx context.Context, bookID string) error

	// Collections
	SaveCollection(ctx context.Context, collection *entities.Collection) (string, error)
	GetCollection(ctx context.Context, id string) (*entities.Collection, error)
	GetAllCollections(ctx context.Context) ([]entities.Collection, error)
	UpdateCollection(ctx context.Context, id string, updates map[string]any) error
	DeleteCollection(ctx context.Context, id string) error

	// Settings
	SaveSettings(ctx context.Context, settings *entities.Settings) error
	GetSettings(ctx context.Context) (*entities.Settings, error)

	// Sessions. An empty bookID matches all books; nil bounds are open.
	SaveSession(ctx context.Context, session *entities.ReadingSession) error
	GetSessions(ctx context.Context, bookID string, dateFrom, dateTo *time.Time) ([]entities.ReadingSession, error)

	// Maintenance
	ClearAll(ctx context.Context) error
	GetStorageSize(ctx context.Context) (int64, error)
}
