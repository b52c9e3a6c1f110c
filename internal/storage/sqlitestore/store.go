// Package sqlitestore implements the storage port on SQLite via the
// per-domain repositories.
package sqlitestore

import (
	"context"
	"os"
	"time"

	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/database/annotations"
	"github.com/openleaf/reader/internal/database/books"
	"github.com/openleaf/reader/internal/database/collections"
	"github.com/openleaf/reader/internal/database/progress"
	"github.com/openleaf/reader/internal/database/sessions"
	"github.com/openleaf/reader/internal/database/settings"
	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/storage"
)

// Store composes the domain repositories into the storage.Store
// contract. Contexts are accepted for contract parity; SQLite calls
// complete synchronously.
type Store struct {
	db          *database.Database
	books       *books.Repository
	annotations *annotations.Repository
	collections *collections.Repository
	progress    *progress.Repository
	sessions    *sessions.Repository
	settings    *settings.Repository
}

var _ storage.Store = (*Store)(nil)

// New creates a Store over an initialized database.
func New(db *database.Database) *Store {
	return &Store{
		db:          db,
		books:       books.NewRepository(db.DB),
		annotations: annotations.NewRepository(db.DB),
		collections: collections.NewRepository(db.DB),
		progress:    progress.NewRepository(db.DB),
		sessions:    sessions.NewRepository(db.DB),
		settings:    settings.NewRepository(db.DB),
	}
}

// --- Books ---

func (s *Store) SaveBook(_ context.Context, book *entities.Book, file []byte) (string, error) {
	if err := s.books.Create(book, file); err != nil {
		return "", err
	}
	return book.ID, nil
}

func (s *Store) GetBook(_ context.Context, id string) (*entities.Book, error) {
	return s.books.GetByID(id)
}

func (s *Store) GetAllBooks(_ context.Context) ([]entities.Book, error) {
	return s.books.GetAll()
}

func (s *Store) GetBookFile(_ context.Context, id string) ([]byte, error) {
	return s.books.GetFile(id)
}

func (s *Store) UpdateBook(_ context.Context, id string, updates map[string]any) error {
	return s.books.Update(id, updates)
}

func (s *Store) DeleteBook(_ context.Context, id string) error {
	return s.books.Delete(id)
}

func (s *Store) SearchBooks(_ context.Context, query string) ([]entities.Book, error) {
	return s.books.Search(query)
}

// --- Annotations ---

func (s *Store) SaveAnnotation(_ context.Context, annotation *entities.Annotation) (string, error) {
	if err := s.annotations.Create(annotation); err != nil {
		return "", err
	}
	return annotation.ID, nil
}

func (s *Store) GetAnnotation(_ context.Context, id string) (*entities.Annotation, error) {
	return s.annotations.GetByID(id)
}

func (s *Store) GetAnnotations(_ context.Context, bookID string, annotationType entities.AnnotationType) ([]entities.Annotation, error) {
	return s.annotations.GetByBook(bookID, annotationType)
}

func (s *Store) UpdateAnnotation(_ context.Context, id string, updates map[string]any) error {
	return s.annotations.Update(id, updates)
}

func (s *Store) DeleteAnnotation(_ context.Context, id string) error {
	return s.annotations.Delete(id)
}

func (s *Store) DeleteAnnotationsByBook(_ context.Context, bookID string) error {
	return s.annotations.DeleteByBook(bookID)
}

// --- Reading progress ---

func (s *Store) SaveProgress(_ context.Context, record *entities.ReadingProgress) error {
	return s.progress.Save(record)
}

func (s *Store) GetProgress(_ context.Context, bookID string) (*entities.ReadingProgress, error) {
	return s.progress.GetByBook(bookID)
}

func (s *Store) GetAllProgress(_ context.Context) ([]entities.ReadingProgress, error) {
	return s.progress.GetAll()
}

func (s *Store) DeleteProgress(_ context.Context, bookID string) error {
	return s.progress.Delete(bookID)
}

// --- Collections ---

func (s *Store) SaveCollection(_ context.Context, collection *entities.Collection) (string, error) {
	if err := s.collections.Create(collection); err != nil {
		return "", err
	}
	return collection.ID, nil
}

func (s *Store) GetCollection(_ context.Context, id string) (*entities.Collection, error) {
	return s.collections.GetByID(id)
}

func (s *Store) GetAllCollections(_ context.Context) ([]entities.Collection, error) {
	return s.collections.GetAll()
}

func (s *Store) UpdateCollection(_ context.Context, id string, updates map[string]any) error {
	existing, err := s.collections.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}

	if name, ok := updates["name"].(string); ok {
		existing.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		existing.Description = description
	}
	switch bookIDs := updates["book_ids"].(type) {
	case []string:
		existing.BookIDs = bookIDs
	case []any:
		// JSON-decoded bodies arrive as []any
		ids := make([]string, 0, len(bookIDs))
		for _, raw := range bookIDs {
			if id, ok := raw.(string); ok {
				ids = append(ids, id)
			}
		}
		existing.BookIDs = ids
	}
	return s.collections.Save(existing)
}

func (s *Store) DeleteCollection(_ context.Context, id string) error {
	return s.collections.Delete(id)
}

// --- Settings ---

func (s *Store) SaveSettings(_ context.Context, settings *entities.Settings) error {
	return s.settings.Save(settings)
}

func (s *Store) GetSettings(_ context.Context) (*entities.Settings, error) {
	return s.settings.Get()
}

// --- Sessions ---

func (s *Store) SaveSession(_ context.Context, session *entities.ReadingSession) error {
	return s.sessions.Create(session)
}

func (s *Store) GetSessions(_ context.Context, bookID string, dateFrom, dateTo *time.Time) ([]entities.ReadingSession, error) {
	return s.sessions.GetRange(bookID, dateFrom, dateTo)
}

// --- Maintenance ---

// ClearAll wipes every table. Intended for the explicit "erase my
// library" action only.
func (s *Store) ClearAll(_ context.Context) error {
	for _, model := range []any{
		&entities.BookFile{},
		&entities.Annotation{},
		&entities.ReadingProgress{},
		&entities.ReadingSession{},
		&entities.Collection{},
		&entities.Setting{},
		&entities.Book{},
	} {
		if err := s.db.DB.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetStorageSize reports the database file size on disk, falling back
// to the summed blob sizes when the file cannot be stat'd (e.g. an
// in-memory database).
func (s *Store) GetStorageSize(_ context.Context) (int64, error) {
	if info, err := os.Stat(s.db.Path); err == nil {
		return info.Size(), nil
	}
	return s.books.FileSizeTotal()
}
