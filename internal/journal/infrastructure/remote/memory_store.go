package remote

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore for tests and the memory://
// backend. Values are normalised through JSON on write, so reads look the
// same as they would from a real store.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Upsert(_ context.Context, collection, id string, fields map[string]any) error {
	normalised, err := encodeFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[collection] = docs
	}
	doc, ok := docs[id]
	if !ok {
		doc = make(map[string]any, len(normalised))
		docs[id] = doc
	}
	for k, v := range normalised {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return copyFields(doc), nil
}

// Query returns matching documents ordered by id.
func (s *MemoryStore) Query(_ context.Context, collection, field string, value any) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []Document
	for id, doc := range s.collections[collection] {
		if reflect.DeepEqual(doc[field], value) {
			docs = append(docs, Document{ID: id, Fields: copyFields(doc)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	return id, s.Upsert(ctx, collection, id, fields)
}

// Count returns the number of documents in collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func copyFields(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
