package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Config selects and tunes the remote store.
type Config struct {
	// URL picks the backend by scheme. Empty disables the remote.
	URL string
	// Database is the MongoDB database name.
	Database string
	// Table is the PostgreSQL document table.
	Table string
	// Timeout bounds connecting to the store.
	Timeout time.Duration
	Breaker BreakerConfig
}

// Remote is the mirror plus its lifecycle.
type Remote interface {
	domain.RemoteMirror
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// OpenStore connects to the backend named by cfg.URL.
func OpenStore(ctx context.Context, cfg Config) (DocumentStore, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, cfg.URL, cfg.Database)
	case "postgres", "postgresql":
		conn, err := database.Open(ctx, database.Config{Driver: database.DriverPostgres, URL: cfg.URL})
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStore(ctx, conn, cfg.Table)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return store, nil
	case "redis", "rediss":
		return NewRedisStore(ctx, cfg.URL, DefaultRedisPrefix)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported remote scheme %q", u.Scheme)
	}
}

// Open returns a Mirror for cfg, or a NoopMirror when cfg.URL is empty.
func Open(ctx context.Context, cfg Config, clock domain.Clock, logger *slog.Logger, metrics observability.Metrics) (Remote, error) {
	if cfg.URL == "" {
		return NoopMirror{}, nil
	}
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewMirror(store, cfg.Breaker, clock, logger, metrics), nil
}
