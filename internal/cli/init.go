// Package cli provides common initialization for the command
// entrypoint: env file, logging, configuration and the persistence
// backend.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"myfinance/internal/config"
	"myfinance/internal/ledger"
	applog "myfinance/internal/log"
	"myfinance/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging and sets it as default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// OpenRepository selects and initializes the snapshot repository for
// the configured backend. The returned closer is a no-op for the
// memory backend.
func OpenRepository(logger *applog.Logger, cfg *config.Config) (ledger.Repository, func() error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, cfg.SnapshotKey)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized sqlite backend",
			"path", cfg.SQLiteDBPath, applog.FieldSnapshotKey, cfg.SnapshotKey)
		return repo, repo.Close
	default:
		logger.Info("Initialized memory backend")
		return storage.NewMemoryRepository(), func() error { return nil }
	}
}
