// Package http exposes the reader over a JSON API: library management,
// annotations, collections, settings, reading progress and statistics.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/progress"
	"github.com/openleaf/reader/internal/settings"
	"github.com/openleaf/reader/internal/storage"
)

// RouterConfig carries every dependency the router wires into
// controllers.
type RouterConfig struct {
	DB       *database.Database
	Store    storage.Store
	Library  LibraryService
	Settings *settings.Service
	Tracker  *progress.Tracker
	Version  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.DB, cfg.Version)
	booksController := NewBooksController(cfg.Library)
	annotationsController := NewAnnotationsController(cfg.Store)
	collectionsController := NewCollectionsController(cfg.Store)
	settingsController := NewSettingsController(cfg.Settings)
	readingController := NewReadingController(cfg.Tracker, cfg.Store)
	maintenanceController := NewMaintenanceController(cfg.Store)

	api := router.Group("/api")

	api.GET("/health", healthController.Status)

	api.GET("/books", booksController.ListBooks)
	api.POST("/books", booksController.UploadBook)
	api.POST("/books/import", booksController.ImportFromScan)
	api.GET("/books/:id", booksController.GetBook)
	api.GET("/books/:id/file", booksController.GetBookFile)
	api.PATCH("/books/:id", booksController.UpdateBook)
	api.POST("/books/:id/open", booksController.MarkOpened)
	api.DELETE("/books/:id", booksController.DeleteBook)

	api.GET("/books/:id/annotations", annotationsController.ListAnnotations)
	api.POST("/books/:id/annotations", annotationsController.CreateAnnotation)
	api.PATCH("/annotations/:id", annotationsController.UpdateAnnotation)
	api.DELETE("/annotations/:id", annotationsController.DeleteAnnotation)

	api.GET("/collections", collectionsController.ListCollections)
	api.POST("/collections", collectionsController.CreateCollection)
	api.GET("/collections/:id", collectionsController.GetCollection)
	api.PATCH("/collections/:id", collectionsController.UpdateCollection)
	api.DELETE("/collections/:id", collectionsController.DeleteCollection)

	api.GET("/settings", settingsController.GetSettings)
	api.PATCH("/settings", settingsController.UpdateSettings)
	api.POST("/settings/reset", settingsController.ResetSettings)

	api.GET("/books/:id/progress", readingController.GetProgress)
	api.PUT("/books/:id/progress", readingController.SaveProgress)
	api.POST("/books/:id/sessions/start", readingController.StartSession)
	api.POST("/books/:id/sessions/end", readingController.EndSession)
	api.GET("/books/:id/statistics", readingController.GetBookStatistics)
	api.GET("/sessions", readingController.ListSessions)
	api.GET("/statistics", readingController.GetStatistics)

	api.GET("/storage", maintenanceController.GetStorageSize)
	api.DELETE("/storage", maintenanceController.ClearAll)

	return router
}
