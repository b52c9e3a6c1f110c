package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openleaf/reader/internal/books"
	"github.com/openleaf/reader/internal/entities"
)

// LibraryService defines the book operations the HTTP layer needs.
type LibraryService interface {
	AddBook(ctx context.Context, data []byte, metadata entities.Book) (string, error)
	AddBooksFromScan(ctx context.Context, metadata entities.Book) ([]string, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	GetBookFile(ctx context.Context, id string) ([]byte, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	UpdateBook(ctx context.Context, id string, updates map[string]any) error
	MarkOpened(ctx context.Context, id string) error
	DeleteBook(ctx context.Context, id string) error
}

type BooksController struct {
	library LibraryService
}

func NewBooksController(library LibraryService) *BooksController {
	return &BooksController{library: library}
}

// ListBooks returns the library, filtered by the optional q parameter.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	var (
		list []entities.Book
		err  error
	)
	if query := strings.TrimSpace(c.Query("q")); query != "" {
		list, err = bc.library.SearchBooks(c.Request.Context(), query)
	} else {
		list, err = bc.library.GetAllBooks(c.Request.Context())
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": list, "total": len(list)})
}

// UploadBook imports an EPUB from a multipart form. The file part is
// required; title, author and tags parts override the inferred
// metadata.
// POST /api/books
func (bc *BooksController) UploadBook(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file part is required")
		return
	}
	if !strings.EqualFold(strings.TrimPrefix(filenameExt(fileHeader.Filename), "."), "epub") {
		respondBadRequest(c, "only .epub files are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondInternalError(c, err, "read uploaded file")
		return
	}

	metadata := entities.Book{
		Title:  c.PostForm("title"),
		Author: c.PostForm("author"),
	}
	if metadata.Title == "" {
		metadata.Title = titleFromFilename(fileHeader.Filename)
	}
	if tags := c.PostForm("tags"); tags != "" {
		metadata.Tags = splitTags(tags)
	}

	id, err := bc.library.AddBook(c.Request.Context(), data, metadata)
	if err != nil {
		respondInternalError(c, err, "import book")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "book imported", "id": id})
}

// ImportFromScan runs a synchronous import pass over the configured
// import directory.
// POST /api/books/import
func (bc *BooksController) ImportFromScan(c *gin.Context) {
	ids, err := bc.library.AddBooksFromScan(c.Request.Context(), entities.Book{})
	if err != nil {
		respondInternalError(c, err, "import books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "import finished", "imported": len(ids), "ids": ids})
}

// GetBook returns one book's metadata.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.library.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetBookFile streams the stored EPUB binary.
// GET /api/books/:id/file
func (bc *BooksController) GetBookFile(c *gin.Context) {
	data, err := bc.library.GetBookFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book file")
		return
	}
	if data == nil {
		respondNotFound(c, "book file")
		return
	}

	c.Data(http.StatusOK, "application/epub+zip", data)
}

// UpdateBook applies a partial metadata update.
// PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	err := bc.library.UpdateBook(c.Request.Context(), c.Param("id"), updates)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	respondSuccess(c, "book updated")
}

// MarkOpened stamps the book as opened, flipping a fresh book into the
// reading state.
// POST /api/books/:id/open
func (bc *BooksController) MarkOpened(c *gin.Context) {
	err := bc.library.MarkOpened(c.Request.Context(), c.Param("id"))
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "mark book opened")
		return
	}

	respondSuccess(c, "book opened")
}

// DeleteBook removes a book and everything attached to it.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.library.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

func filenameExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}

func titleFromFilename(name string) string {
	return strings.TrimSuffix(name, filenameExt(name))
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
