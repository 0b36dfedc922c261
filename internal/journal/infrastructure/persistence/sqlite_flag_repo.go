package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

// SQLiteFlagRepository stores scalar settings in the settings table.
type SQLiteFlagRepository struct {
	conn database.Connection
}

func NewSQLiteFlagRepository(conn database.Connection) *SQLiteFlagRepository {
	return &SQLiteFlagRepository{conn: conn}
}

// Get returns "" when the flag is unset.
func (r *SQLiteFlagRepository) Get(ctx context.Context, flag domain.Flag) (string, error) {
	var value string
	err := database.ExecutorFromContext(ctx, r.conn).
		QueryRow(ctx, `SELECT value FROM settings WHERE key = ?`, string(flag)).
		Scan(&value)
	if err != nil {
		if database.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("read flag %s: %w", flag, err)
	}
	return value, nil
}

func (r *SQLiteFlagRepository) Set(ctx context.Context, flag domain.Flag, value string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(flag), value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write flag %s: %w", flag, err)
	}
	return nil
}

func (r *SQLiteFlagRepository) Delete(ctx context.Context, flag domain.Flag) error {
	if _, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM settings WHERE key = ?`, string(flag)); err != nil {
		return fmt.Errorf("delete flag %s: %w", flag, err)
	}
	return nil
}
