package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Reader
		Library
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Reader struct {
		ProgressDebounce time.Duration // quiet period before a relocation is persisted
		Surface          string        // rendering surface id handed to the engine
	}
	Library struct {
		ImportDir    string // directory watched for new EPUB files; empty disables scanning
		ScanEnabled  bool
		ScanSchedule string // cron format: "*/5 * * * *" = every five minutes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8390)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Reader defaults
	v.SetDefault("reader_progress_debounce", "750ms")
	v.SetDefault("reader_surface", "viewer")

	// Library scan defaults
	v.SetDefault("library_import_dir", "")
	v.SetDefault("library_scan_enabled", false)
	v.SetDefault("library_scan_schedule", "*/5 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Reader: Reader{
			ProgressDebounce: v.GetDuration("READER_PROGRESS_DEBOUNCE"),
			Surface:          v.GetString("READER_SURFACE"),
		},
		Library: Library{
			ImportDir:    v.GetString("LIBRARY_IMPORT_DIR"),
			ScanEnabled:  v.GetBool("LIBRARY_SCAN_ENABLED"),
			ScanSchedule: v.GetString("LIBRARY_SCAN_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
