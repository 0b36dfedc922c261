package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

// SQLiteHistoryRepository is the local append-only journal. Rows are only
// ever inserted; synced_at is the one column updated afterwards.
type SQLiteHistoryRepository struct {
	conn database.Connection
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
func NewSQLiteHistoryRepository(conn database.Connection) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{conn: conn}
}

// Append inserts one entry.
func (r *SQLiteHistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`INSERT INTO history (id, kind, date, timestamp, payload) VALUES (?, ?, ?, ?, ?)`,
		entry.ID.String(), string(entry.Kind), entry.Date.String(),
		entry.Timestamp.UTC().Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// List returns all entries in insertion order.
func (r *SQLiteHistoryRepository) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return r.query(ctx, `SELECT payload FROM history ORDER BY timestamp, id`)
}

// ListUnsynced returns entries not yet acknowledged by the remote.
func (r *SQLiteHistoryRepository) ListUnsynced(ctx context.Context) ([]domain.HistoryEntry, error) {
	return r.query(ctx, `SELECT payload FROM history WHERE synced_at IS NULL ORDER BY timestamp, id`)
}

// MarkSynced stamps the entry as mirrored.
func (r *SQLiteHistoryRepository) MarkSynced(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE history SET synced_at = ? WHERE id = ? AND synced_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), entry.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("mark history entry synced: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepository) query(ctx context.Context, query string) ([]domain.HistoryEntry, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
