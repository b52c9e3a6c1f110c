package config

const (
	// DefaultDatabasePath is where the library database lives unless
	// DATABASE_PATH overrides it.
	DefaultDatabasePath = "./openleaf.db"
)
