// Package remote mirrors day entries, history and the user profile to an
// off-device document store.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names.
const (
	CollectionDailyEntries    = "dailyEntries"
	CollectionActivityHistory = "activityHistory"
	CollectionTimeHistory     = "timeHistory"
	CollectionUsers           = "users"
)

// Field names added to every mirrored document.
const (
	FieldOwner     = "userEmail"
	FieldUpdatedAt = "updatedAt"
	FieldCreatedAt = "createdAt"
)

var (
	// ErrDocumentNotFound is returned by Get for a missing id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrRemoteUnavailable is returned while the circuit is open.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// Document is a stored document and its id.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore is the minimal contract the mirror needs: merge-upsert by
// id, get by id, equality query on one field and insert with a generated id.
type DocumentStore interface {
	// Upsert creates the document or merges fields into the existing one.
	Upsert(ctx context.Context, collection, id string, fields map[string]any) error
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// encodeFields turns a JSON-tagged struct into a field map.
func encodeFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeFields fills v from a field map. Unknown fields are ignored.
func decodeFields(fields map[string]any, v any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
