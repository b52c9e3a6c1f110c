package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openleaf/reader/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.BookFile{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), cleanup
}

func sampleBook(id, title, author string) *entities.Book {
	return &entities.Book{
		ID:        id,
		Title:     title,
		Author:    author,
		Status:    entities.BookStatusNotStarted,
		Tags:      []string{"fiction"},
		DateAdded: time.Now(),
	}
}

func TestBooksRepository(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("Create stores record and file together", func(t *testing.T) {
		book := sampleBook("b1", "Dune", "Frank Herbert")
		err := repo.Create(book, []byte("epub-bytes"))
		require.NoError(t, err)

		loaded, err := repo.GetByID("b1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "Dune", loaded.Title)
		assert.Equal(t, []string{"fiction"}, loaded.Tags)

		file, err := repo.GetFile("b1")
		require.NoError(t, err)
		assert.Equal(t, []byte("epub-bytes"), file)
	})

	t.Run("GetByID returns nil for missing books", func(t *testing.T) {
		loaded, err := repo.GetByID("missing")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("GetFile returns nil for missing files", func(t *testing.T) {
		file, err := repo.GetFile("missing")
		require.NoError(t, err)
		assert.Nil(t, file)
	})

	t.Run("Update changes selected columns only", func(t *testing.T) {
		err := repo.Update("b1", map[string]any{"status": entities.BookStatusReading})
		require.NoError(t, err)

		loaded, err := repo.GetByID("b1")
		require.NoError(t, err)
		assert.Equal(t, entities.BookStatusReading, loaded.Status)
		assert.Equal(t, "Dune", loaded.Title)
	})

	t.Run("Search matches title and author case-insensitively", func(t *testing.T) {
		require.NoError(t, repo.Create(sampleBook("b2", "Neuromancer", "William Gibson"), []byte("x")))

		byTitle, err := repo.Search("neuro")
		require.NoError(t, err)
		require.Len(t, byTitle, 1)
		assert.Equal(t, "Neuromancer", byTitle[0].Title)

		byAuthor, err := repo.Search("HERBERT")
		require.NoError(t, err)
		require.Len(t, byAuthor, 1)
		assert.Equal(t, "Dune", byAuthor[0].Title)

		none, err := repo.Search("tolstoy")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("FileSizeTotal sums stored blobs", func(t *testing.T) {
		total, err := repo.FileSizeTotal()
		require.NoError(t, err)
		// "epub-bytes" (10) + "x" (1)
		assert.Equal(t, int64(11), total)
	})

	t.Run("Delete removes record and file", func(t *testing.T) {
		require.NoError(t, repo.Delete("b1"))

		loaded, err := repo.GetByID("b1")
		require.NoError(t, err)
		assert.Nil(t, loaded)

		file, err := repo.GetFile("b1")
		require.NoError(t, err)
		assert.Nil(t, file)
	})
}
