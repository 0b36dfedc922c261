package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

// SQLiteEntryRepository implements domain.EntryRepository. Each row holds
// the JSON snapshot of one day.
type SQLiteEntryRepository struct {
	conn database.Connection
}

// NewSQLiteEntryRepository creates a new SQLite entry repository.
func NewSQLiteEntryRepository(conn database.Connection) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{conn: conn}
}

// Save upserts the snapshot keyed by date.
func (r *SQLiteEntryRepository) Save(ctx context.Context, date domain.LocalDate, snap domain.EntrySnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", date, err)
	}

	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO entries (date, id, snapshot, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			id = excluded.id,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		date.String(), snap.ID.String(), string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save entry %s: %w", date, err)
	}
	return nil
}

// FindByDate loads the snapshot for date.
func (r *SQLiteEntryRepository) FindByDate(ctx context.Context, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	var payload string
	err := database.ExecutorFromContext(ctx, r.conn).
		QueryRow(ctx, `SELECT snapshot FROM entries WHERE date = ?`, date.String()).
		Scan(&payload)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("load entry %s: %w", date, err)
	}

	snap, err := decodeSnapshot(payload)
	if err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", date, err)
	}
	return &snap, nil
}

// List returns every entry, newest first.
func (r *SQLiteEntryRepository) List(ctx context.Context) ([]domain.EntrySnapshot, error) {
	return r.query(ctx, `SELECT snapshot FROM entries ORDER BY date DESC`)
}

// ListRange returns entries between from and to inclusive, newest first.
func (r *SQLiteEntryRepository) ListRange(ctx context.Context, from, to domain.LocalDate) ([]domain.EntrySnapshot, error) {
	return r.query(ctx, `SELECT snapshot FROM entries WHERE date >= ? AND date <= ? ORDER BY date DESC`, from.String(), to.String())
}

func (r *SQLiteEntryRepository) query(ctx context.Context, query string, args ...any) ([]domain.EntrySnapshot, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var snaps []domain.EntrySnapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		snap, err := decodeSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func decodeSnapshot(payload string) (domain.EntrySnapshot, error) {
	var snap domain.EntrySnapshot
	err := json.Unmarshal([]byte(payload), &snap)
	return snap, err
}
