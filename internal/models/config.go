package models

import "time"

// Config represents the application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Market   MarketConfig
}

// StoreConfig selects the persistence backend shared by all commands.
type StoreConfig struct {
	Backend      string // "sqlite" or "file"
	FilePath     string // blob path for the file backend
	SeedDemoData bool
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// MarketConfig holds market catalog and quote refresh settings
type MarketConfig struct {
	AssetsFile      string
	RefreshInterval time.Duration
}
