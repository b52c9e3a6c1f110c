package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleaf/reader/internal/books"
	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/entities"
	"github.com/openleaf/reader/internal/files"
	"github.com/openleaf/reader/internal/progress"
	"github.com/openleaf/reader/internal/settings"
	"github.com/openleaf/reader/internal/storage/sqlitestore"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *sqlitestore.Store, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	store := sqlitestore.New(db)
	router := NewRouter(RouterConfig{
		DB:       db,
		Store:    store,
		Library:  books.NewService(store, files.NewLocalAdapter("")),
		Settings: settings.NewService(store, nil),
		Tracker:  progress.NewTracker(store),
		Version:  "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, store, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, router, "GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "ok", response.Checks["database"])
}

func TestSettingsEndpoints(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	t.Run("GET returns defaults on an empty database", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/settings", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var loaded entities.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
		assert.Equal(t, 16.0, loaded.FontSize)
		assert.Equal(t, entities.ThemeLight, loaded.Theme)
	})

	t.Run("PATCH merges and corrects", func(t *testing.T) {
		w := doJSON(t, router, "PATCH", "/api/settings", map[string]any{
			"font_size": 500,
			"theme":     "dark",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var updated entities.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 48.0, updated.FontSize)
		assert.Equal(t, entities.ThemeDark, updated.Theme)
	})

	t.Run("partial margin updates leave the rest alone", func(t *testing.T) {
		w := doJSON(t, router, "PATCH", "/api/settings", map[string]any{
			"margins": map[string]any{"top": 60},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var updated entities.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, entities.Margins{Top: 60, Right: 24, Bottom: 20, Left: 24}, updated.Margins)
		// earlier patches stick
		assert.Equal(t, entities.ThemeDark, updated.Theme)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/settings/reset", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var restored entities.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restored))
		assert.Equal(t, entities.DefaultSettings(), restored)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		req, _ := http.NewRequest("PATCH", "/api/settings", strings.NewReader("{nope"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProgressEndpoints(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	t.Run("missing progress is a 404", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/books/book-1/progress", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT stores, GET returns", func(t *testing.T) {
		w := doJSON(t, router, "PUT", "/api/books/book-1/progress", ProgressRequest{
			Token:      "cfi-token",
			Percentage: 0.42,
			Page:       42,
			TotalPages: 100,
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "GET", "/api/books/book-1/progress", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var record entities.ReadingProgress
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, "cfi-token", record.Location)
		assert.Equal(t, 42.0, record.Percentage)
	})

	t.Run("a missing token is a 400", func(t *testing.T) {
		w := doJSON(t, router, "PUT", "/api/books/book-1/progress", ProgressRequest{Percentage: 0.5})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("session lifecycle over HTTP", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/books/book-1/sessions/start", map[string]any{})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "POST", "/api/books/book-1/sessions/end", EndSessionRequest{PagesRead: 12})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "session ended")

		// second end has nothing to close
		w = doJSON(t, router, "POST", "/api/books/book-1/sessions/end", EndSessionRequest{})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "no open session")
	})

	t.Run("statistics reflect recorded sessions", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/statistics", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats progress.Statistics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 1, stats.BooksRead)
		assert.Len(t, stats.History, 1)
	})

	t.Run("bad range parameters are a 400", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/statistics?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnnotationEndpoints(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	t.Run("create and list", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/books/book-1/annotations", map[string]any{
			"type":     "highlight",
			"location": "cfi-1",
			"content":  "memorable line",
			"color":    "yellow",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, "GET", "/api/books/book-1/annotations?type=highlight", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "memorable line")
	})

	t.Run("unknown type is a 400", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/books/book-1/annotations", map[string]any{
			"type":     "doodle",
			"location": "cfi-2",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookEndpoints(t *testing.T) {
	router, store, cleanup := setupTestRouter(t)
	defer cleanup()

	t.Run("missing book is a 404", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/books/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list includes stored books", func(t *testing.T) {
		_, err := store.SaveBook(context.Background(), &entities.Book{
			ID: "b1", Title: "Hyperion", Author: "Dan Simmons", Status: entities.BookStatusNotStarted,
		}, []byte("epub"))
		require.NoError(t, err)

		w := doJSON(t, router, "GET", "/api/books", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hyperion")

		w = doJSON(t, router, "GET", "/api/books/b1/file", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/epub+zip", w.Header().Get("Content-Type"))
	})
}
