package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
)

// DefaultDocumentTable is the PostgreSQL table used when none is configured.
const DefaultDocumentTable = "documents"

// PostgresStore keeps every collection in one JSONB table keyed by
// (collection, id).
type PostgresStore struct {
	conn  database.Connection
	table string
}

// NewPostgresStore creates the document table if needed.
func NewPostgresStore(ctx context.Context, conn database.Connection, table string) (*PostgresStore, error) {
	if table == "" {
		table = DefaultDocumentTable
	}
	s := &PostgresStore{conn: conn, table: pq.QuoteIdentifier(table)}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)`, s.table)
	if _, err := conn.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create document table: %w", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (data)`,
		pq.QuoteIdentifier(table+"_data_idx"), s.table)
	if _, err := conn.Exec(ctx, index); err != nil {
		return nil, fmt.Errorf("create document index: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s AS d (collection, id, data, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id) DO UPDATE SET
			data = d.data || EXCLUDED.data,
			updated_at = now()`, s.table)
	_, err = s.conn.Exec(ctx, query, collection, id, string(data))
	return err
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE collection = $1 AND id = $2`, s.table)
	var data []byte
	if err := s.conn.QueryRow(ctx, query, collection, id).Scan(&data); err != nil {
		if database.IsNoRows(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}

// Query uses JSONB containment, which the GIN index serves.
func (s *PostgresStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	filter, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE collection = $1 AND data @> $2::jsonb ORDER BY id`, s.table)
	rows, err := s.conn.Query(ctx, query, collection, string(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	return id, s.Upsert(ctx, collection, id, fields)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.conn.Close()
}
