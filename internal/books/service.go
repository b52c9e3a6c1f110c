// Package books implements the library service: adding books from the
// file port, metadata normalization, and cascading deletes.
package books

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/files"
	"github.com/openleaf/reader/internal/storage"
)

// ErrBookNotFound is returned when a mutation targets a book that does
// not exist.
var ErrBookNotFound = fmt.Errorf("book not found")

// Service manages the book library on top of the storage and file
// ports.
type Service struct {
	store storage.Store
	files files.Adapter
}

// NewService creates a library service.
func NewService(store storage.Store, fileAdapter files.Adapter) *Service {
	return &Service{store: store, files: fileAdapter}
}

// AddBook stores an EPUB binary with normalized metadata and returns
// the new book id.
func (s *Service) AddBook(ctx context.Context, data []byte, metadata entities.Book) (string, error) {
	book := normalizeMetadata(metadata, int64(len(data)))
	if _, err := s.store.SaveBook(ctx, &book, data); err != nil {
		return "", fmt.Errorf("failed to save book: %w", err)
	}
	return book.ID, nil
}

// AddBookFromFile opens one file through the file port and adds it.
// The title falls back to the file name without its extension.
func (s *Service) AddBookFromFile(ctx context.Context, name string, metadata entities.Book) (string, error) {
	file, err := s.files.OpenFile(ctx, name, files.OpenOptions{Accept: []string{".epub"}})
	if err != nil {
		return "", err
	}
	return s.AddBook(ctx, file.Data, mergeFileMetadata(*file, metadata))
}

// AddBooksFromScan opens every accepted file the adapter can enumerate
// and adds each, returning the new ids in import order.
func (s *Service) AddBooksFromScan(ctx context.Context, metadata entities.Book) ([]string, error) {
	opened, err := s.files.OpenMultipleFiles(ctx, files.OpenOptions{Accept: []string{".epub"}})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(opened))
	for _, file := range opened {
		id, err := s.AddBook(ctx, file.Data, mergeFileMetadata(file, metadata))
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetBook returns a book, (nil, nil) when absent.
func (s *Service) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	return s.store.GetBook(ctx, id)
}

// GetBookFile returns the stored EPUB binary.
func (s *Service) GetBookFile(ctx context.Context, id string) ([]byte, error) {
	return s.store.GetBookFile(ctx, id)
}

// GetAllBooks lists the library.
func (s *Service) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	return s.store.GetAllBooks(ctx)
}

// SearchBooks passes the query through to the store.
func (s *Service) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	return s.store.SearchBooks(ctx, query)
}

// UpdateBook applies a partial update after checking the book exists.
func (s *Service) UpdateBook(ctx context.Context, id string, updates map[string]any) error {
	existing, err := s.store.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return s.store.UpdateBook(ctx, id, updates)
}

// MarkOpened stamps the last-opened time and flips a not-started book
// to reading.
func (s *Service) MarkOpened(ctx context.Context, id string) error {
	existing, err := s.store.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}

	updates := map[string]any{"last_opened": time.Now()}
	if existing.Status == entities.BookStatusNotStarted {
		updates["status"] = entities.BookStatusReading
	}
	return s.store.UpdateBook(ctx, id, updates)
}

// DeleteBook removes a book together with its annotations, progress
// record and collection memberships.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	if err := s.store.DeleteBook(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteAnnotationsByBook(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteProgress(ctx, id); err != nil {
		return err
	}
	return s.removeFromCollections(ctx, id)
}

func (s *Service) removeFromCollections(ctx context.Context, bookID string) error {
	collections, err := s.store.GetAllCollections(ctx)
	if err != nil {
		return err
	}

	for _, collection := range collections {
		kept := collection.BookIDs[:0]
		removed := false
		for _, id := range collection.BookIDs {
			if id == bookID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			continue
		}
		err := s.store.UpdateCollection(ctx, collection.ID, map[string]any{"book_ids": append([]string{}, kept...)})
		if err != nil {
			return err
		}
	}
	return nil
}

// normalizeMetadata fills the fields a valid library record must have:
// id, placeholder title/author, a known status, timestamps and deduped
// tags.
func normalizeMetadata(metadata entities.Book, fileSize int64) entities.Book {
	book := metadata

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.Title = strings.TrimSpace(book.Title); book.Title == "" {
		book.Title = "Untitled Book"
	}
	if book.Author = strings.TrimSpace(book.Author); book.Author == "" {
		book.Author = "Unknown Author"
	}
	if !entities.ValidBookStatus(book.Status) {
		book.Status = entities.BookStatusNotStarted
	}
	if book.FileSize == 0 {
		book.FileSize = fileSize
	}
	if book.DateAdded.IsZero() {
		book.DateAdded = time.Now()
	}
	if len(book.Tags) > 0 {
		book.Tags = dedupeTags(book.Tags)
	}

	return book
}

func mergeFileMetadata(file files.File, metadata entities.Book) entities.Book {
	merged := metadata
	if strings.TrimSpace(merged.Title) == "" {
		merged.Title = inferTitle(file.Name)
	}
	if merged.FileSize == 0 {
		merged.FileSize = file.Size
	}
	return merged
}

func inferTitle(filename string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if title == "" {
		return filename
	}
	return title
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var result []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
