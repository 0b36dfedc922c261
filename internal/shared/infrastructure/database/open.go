package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config describes how to reach a database.
type Config struct {
	// Driver selects the backend. Empty means detect from URL.
	Driver Driver
	// URL is a PostgreSQL connection string.
	URL string
	// SQLitePath is the SQLite file. Defaults to DefaultSQLitePath.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// Opener creates a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register installs the opener for a driver. Driver packages call it from init.
func Register(driver Driver, open Opener) {
	openers[driver] = open
}

// Open creates a connection for cfg, using the registered opener.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath is ~/.daylog/daylog.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".daylog", "daylog.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o750)
}
