package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coinsouq-exchange-go/internal/config"
	"coinsouq-exchange-go/internal/database"
	"coinsouq-exchange-go/internal/filestore"
	"coinsouq-exchange-go/internal/models"
	"coinsouq-exchange-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeStore opens the configured persistence backend.
func InitializeStore(ctx context.Context, cfg *models.Config) (store.ExchangeStore, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		zap.L().Info("Using file store backend", zap.String("path", cfg.Store.FilePath))
		return filestore.NewService(cfg.Store.FilePath)
	case config.BackendSQLite:
		zap.L().Info("Using SQLite store backend", zap.String("path", cfg.Database.Path))
		return database.NewService(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
