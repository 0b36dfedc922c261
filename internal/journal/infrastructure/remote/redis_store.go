package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key the store writes.
const DefaultRedisPrefix = "daylog"

// RedisStore keeps one hash per document under
// {prefix}:{collection}:{id}, each field JSON-encoded, and a set of ids
// per collection under {prefix}:{collection}:_ids.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to url and verifies the server answers.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, collection, id)
}

func (s *RedisStore) indexKey(collection string) string {
	return fmt.Sprintf("%s:%s:_ids", s.prefix, collection)
}

func (s *RedisStore) Upsert(ctx context.Context, collection, id string, fields map[string]any) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode field %s: %w", k, err)
		}
		values[k] = string(raw)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docKey(collection, id), values)
		pipe.SAdd(ctx, s.indexKey(collection), id)
		return nil
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	raw, err := s.client.HGetAll(ctx, s.docKey(collection, id)).Result()
	if err == redis.Nil {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrDocumentNotFound
	}
	return decodeHash(raw)
}

// Query scans the collection index and filters on the encoded field value.
func (s *RedisStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode query value: %w", err)
	}

	ids, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.docKey(collection, id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var docs []Document
	for i, cmd := range cmds {
		raw := cmd.Val()
		if raw[field] != string(want) {
			continue
		}
		fields, err := decodeHash(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", ids[i], err)
		}
		docs = append(docs, Document{ID: ids[i], Fields: fields})
	}
	return docs, nil
}

func (s *RedisStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	return id, s.Upsert(ctx, collection, id, fields)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close(context.Context) error {
	return s.client.Close()
}

func decodeHash(raw map[string]string) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil, fmt.Errorf("decode field %s: %w", k, err)
		}
		fields[k] = decoded
	}
	return fields, nil
}
