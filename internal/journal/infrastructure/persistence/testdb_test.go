package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/migrations"
)

// setupTestDB opens a migrated journal file in a temp dir.
func setupTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "daylog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.RunSQLite(ctx, conn))
	return conn
}
