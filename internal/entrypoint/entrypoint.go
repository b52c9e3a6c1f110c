// Package entrypoint wires the application together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openleaf/reader/internal/books"
	"github.com/openleaf/reader/internal/config"
	"github.com/openleaf/reader/internal/database"
	"github.com/openleaf/reader/internal/files"
	controllers "github.com/openleaf/reader/internal/http"
	"github.com/openleaf/reader/internal/progress"
	"github.com/openleaf/reader/internal/scheduler"
	"github.com/openleaf/reader/internal/settings"
	"github.com/openleaf/reader/internal/storage/sqlitestore"
	"github.com/openleaf/reader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up
// resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown signal received, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before closing listeners
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds the full application from configuration and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting openleaf reader v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store := sqlitestore.New(db)
	fileAdapter := files.NewLocalAdapter(cfg.Library.ImportDir)

	library := books.NewService(store, fileAdapter)
	settingsService := settings.NewService(store, nil)
	tracker := progress.NewTracker(store)

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewImportBookQueue(library))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic library scan, only meaningful with a queue and a
	// readable import directory
	var scanScheduler *scheduler.LibraryScanScheduler
	if cfg.Library.ScanEnabled && taskClient != nil {
		scanScheduler = scheduler.NewLibraryScanScheduler(fileAdapter, store, taskClient, cfg.Library.ScanSchedule)
		if err := scanScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: %v", err)
			scanScheduler = nil
		}
	}

	router := controllers.NewRouter(controllers.RouterConfig{
		DB:       db,
		Store:    store,
		Library:  library,
		Settings: settingsService,
		Tracker:  tracker,
		Version:  version,
	})

	onShutdown := func(ctx context.Context) {
		if scanScheduler != nil {
			scanScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
