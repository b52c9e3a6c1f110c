// Package cli implements the command line subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/openleaf/reader/internal/books"
	"github.com/openleaf/reader/internal/config"
	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/files"
	"github.com/openleaf/reader/internal/storage/sqlitestore"
)

// LibraryScanCommand imports every EPUB from a directory in one pass,
// without starting the server.
type LibraryScanCommand struct {
	Dir          string
	DatabasePath string
	Verbose      bool
}

// NewLibraryScanCommand creates a new LibraryScanCommand.
func NewLibraryScanCommand() *LibraryScanCommand {
	return &LibraryScanCommand{}
}

// ParseFlags parses command line flags.
func (cmd *LibraryScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.Dir, "dir", "", "Directory containing .epub files to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan -dir <directory> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import all EPUB files from a directory into the library.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -dir ~/Books\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -dir ~/Books -db ./library.db -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir is required")
	}
	return nil
}

// Run executes the import.
func (cmd *LibraryScanCommand) Run() error {
	adapter := files.NewLocalAdapter(cmd.Dir)
	if adapter.Capability() != files.CapabilityDirectoryScan {
		return fmt.Errorf("directory %s is not readable", cmd.Dir)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cmd.DatabasePath, err)
	}
	defer db.Close()

	store := sqlitestore.New(db)
	library := books.NewService(store, adapter)

	ids, err := library.AddBooksFromScan(context.Background(), entities.Book{})
	if err != nil {
		return fmt.Errorf("import failed after %d book(s): %w", len(ids), err)
	}

	if cmd.Verbose {
		for _, id := range ids {
			fmt.Printf("imported %s\n", id)
		}
	}
	fmt.Printf("Imported %d book(s) from %s\n", len(ids), cmd.Dir)
	return nil
}
