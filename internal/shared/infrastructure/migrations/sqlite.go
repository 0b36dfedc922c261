// Package migrations holds the embedded schema for the local journal file.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version     TEXT PRIMARY KEY,
    applied_at  TEXT NOT NULL
)`

// RunSQLite applies every pending .up.sql file in name order. Applied
// versions are recorded in schema_migrations, so running twice is a no-op.
func RunSQLite(ctx context.Context, conn database.Connection) error {
	return run(ctx, conn, sqliteFS, "sqlite")
}

func run(ctx context.Context, conn database.Connection, fsys fs.FS, dir string) error {
	if _, err := conn.Exec(ctx, versionTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	uow := database.NewUnitOfWork(conn)
	for _, file := range files {
		version := strings.TrimSuffix(file, ".up.sql")

		var applied int
		if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %s: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		body, err := fs.ReadFile(fsys, dir+"/"+file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		err = uow.Do(ctx, func(ctx context.Context) error {
			exec := database.ExecutorFromContext(ctx, conn)
			if _, err := exec.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := exec.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				version, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}
	return nil
}
