package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openleaf/reader/internal/books"
	"github.com/openleaf/reader/internal/entities"
)

// ImportBookTask imports one EPUB file from the import directory into
// the library.
type ImportBookTask struct {
	Filename string `json:"filename"`
}

// Config returns the queue configuration for import tasks.
func (t ImportBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBookProcessor creates a processor for ImportBookTask backed by
// the library service.
func ImportBookProcessor(library *books.Service) backlite.QueueProcessor[ImportBookTask] {
	return func(ctx context.Context, task ImportBookTask) error {
		if library == nil {
			return fmt.Errorf("library service not configured")
		}

		id, err := library.AddBookFromFile(ctx, task.Filename, entities.Book{})
		if err != nil {
			return fmt.Errorf("import %s: %w", task.Filename, err)
		}

		log.Printf("[TASK] Imported %s as book %s", task.Filename, id)
		return nil
	}
}

// NewImportBookQueue creates the backlite queue for import tasks.
func NewImportBookQueue(library *books.Service) backlite.Queue {
	return backlite.NewQueue(ImportBookProcessor(library))
}
