package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// BreakerConfig tunes the circuit breaker in front of the store.
type BreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe.
	OpenTimeout time.Duration
}

// Mirror implements domain.RemoteMirror on a DocumentStore.
//
// Writes to one document are serialized, and a snapshot older than the one
// last written for the same entry is dropped, so a slow write can never
// overwrite a newer one.
type Mirror struct {
	store   DocumentStore
	breaker *gobreaker.CircuitBreaker[any]
	clock   domain.Clock
	logger  *slog.Logger
	metrics observability.Metrics

	locks   *keyLocks
	mu      sync.Mutex
	written map[string]writeMark
}

type writeMark struct {
	entryID  uuid.UUID
	revision int64
}

// NewMirror wraps store.
func NewMirror(store DocumentStore, breaker BreakerConfig, clock domain.Clock, logger *slog.Logger, metrics observability.Metrics) *Mirror {
	logger = observability.OrDefault(logger).With("component", "remote_mirror")
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if breaker.MaxFailures == 0 {
		breaker.MaxFailures = 3
	}
	if breaker.OpenTimeout == 0 {
		breaker.OpenTimeout = 30 * time.Second
	}

	m := &Mirror{
		store:   store,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		locks:   newKeyLocks(),
		written: make(map[string]writeMark),
	}
	m.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "remote-store",
		MaxRequests: 1,
		Timeout:     breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDocumentNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return m
}

// EntryDocumentID is the deterministic id of a day entry document.
func EntryDocumentID(owner string, date domain.LocalDate) string {
	return owner + "_" + date.String()
}

func historyCollection(kind domain.HistoryKind) string {
	if kind == domain.HistoryTime {
		return CollectionTimeHistory
	}
	return CollectionActivityHistory
}

func (m *Mirror) Enabled() bool { return true }

// call runs fn through the circuit breaker.
func (m *Mirror) call(fn func() error) error {
	_, err := m.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		m.metrics.Counter(observability.MetricBreakerOpen, 1)
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return err
}

func (m *Mirror) upsert(ctx context.Context, collection, id string, fields map[string]any) error {
	m.metrics.Counter(observability.MetricRemoteWriteTotal, 1, observability.T("collection", collection))
	err := m.call(func() error { return m.store.Upsert(ctx, collection, id, fields) })
	if err != nil {
		m.metrics.Counter(observability.MetricRemoteWriteErrors, 1, observability.T("collection", collection))
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *Mirror) now() string {
	return m.clock.Now().UTC().Format(time.RFC3339Nano)
}

// SaveEntry merges the snapshot into {owner}_{date} and touches the user
// document. Both writes run concurrently.
func (m *Mirror) SaveEntry(ctx context.Context, owner string, snap domain.EntrySnapshot) error {
	key := EntryDocumentID(owner, snap.Date)
	unlock := m.locks.lock(key)
	defer unlock()

	if m.isStale(key, snap) {
		m.metrics.Counter(observability.MetricRemoteWriteSkip, 1)
		m.logger.DebugContext(ctx, "skipping stale entry write", "doc", key, "revision", snap.Revision)
		return nil
	}

	fields, err := encodeFields(snap)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	now := m.now()
	fields[FieldOwner] = owner
	fields[FieldUpdatedAt] = now

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.upsert(gctx, CollectionDailyEntries, key, fields)
	})
	g.Go(func() error {
		return m.upsert(gctx, CollectionUsers, owner, map[string]any{"email": owner, FieldUpdatedAt: now})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	m.written[key] = writeMark{entryID: snap.ID, revision: snap.Revision}
	m.mu.Unlock()
	return nil
}

func (m *Mirror) isStale(key string, snap domain.EntrySnapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.written[key]
	return ok && last.entryID == snap.ID && snap.Revision < last.revision
}

// GetEntry returns nil when the document does not exist.
func (m *Mirror) GetEntry(ctx context.Context, owner string, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	var fields map[string]any
	err := m.call(func() (err error) {
		fields, err = m.store.Get(ctx, CollectionDailyEntries, EntryDocumentID(owner, date))
		return err
	})
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		m.metrics.Counter(observability.MetricRemoteReadErrors, 1)
		return nil, fmt.Errorf("get entry %s: %w", date, err)
	}

	var snap domain.EntrySnapshot
	if err := decodeFields(fields, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListEntries returns all of owner's entries, newest date first.
func (m *Mirror) ListEntries(ctx context.Context, owner string) ([]domain.EntrySnapshot, error) {
	var docs []Document
	err := m.call(func() (err error) {
		docs, err = m.store.Query(ctx, CollectionDailyEntries, FieldOwner, owner)
		return err
	})
	if err != nil {
		m.metrics.Counter(observability.MetricRemoteReadErrors, 1)
		return nil, fmt.Errorf("list entries: %w", err)
	}

	snaps := make([]domain.EntrySnapshot, 0, len(docs))
	for _, doc := range docs {
		var snap domain.EntrySnapshot
		if err := decodeFields(doc.Fields, &snap); err != nil {
			m.logger.WarnContext(ctx, "skipping undecodable entry", "doc", doc.ID, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Date > snaps[j].Date })
	return snaps, nil
}

// AppendHistory adds the entry under a store-generated id.
func (m *Mirror) AppendHistory(ctx context.Context, owner string, entry domain.HistoryEntry) error {
	fields, err := encodeFields(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	fields[FieldOwner] = owner
	fields[FieldCreatedAt] = m.now()

	collection := historyCollection(entry.Kind)
	m.metrics.Counter(observability.MetricRemoteWriteTotal, 1, observability.T("collection", collection))
	err = m.call(func() error {
		_, err := m.store.Add(ctx, collection, fields)
		return err
	})
	if err != nil {
		m.metrics.Counter(observability.MetricRemoteWriteErrors, 1, observability.T("collection", collection))
		return fmt.Errorf("append %s: %w", collection, err)
	}
	return nil
}

// ListHistory returns owner's entries of kind, newest first.
func (m *Mirror) ListHistory(ctx context.Context, owner string, kind domain.HistoryKind) ([]domain.HistoryEntry, error) {
	var docs []Document
	err := m.call(func() (err error) {
		docs, err = m.store.Query(ctx, historyCollection(kind), FieldOwner, owner)
		return err
	})
	if err != nil {
		m.metrics.Counter(observability.MetricRemoteReadErrors, 1)
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		var entry domain.HistoryEntry
		if err := decodeFields(doc.Fields, &entry); err != nil {
			m.logger.WarnContext(ctx, "skipping undecodable history entry", "doc", doc.ID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	domain.SortHistory(entries)
	return entries, nil
}

// SaveProfile merges name and email into users/{email}. createdAt is set
// only when the document is new.
func (m *Mirror) SaveProfile(ctx context.Context, profile domain.Profile) error {
	unlock := m.locks.lock(CollectionUsers + "/" + profile.Email)
	defer unlock()

	err := m.call(func() error {
		_, err := m.store.Get(ctx, CollectionUsers, profile.Email)
		return err
	})
	isNew := errors.Is(err, ErrDocumentNotFound)
	if err != nil && !isNew {
		return fmt.Errorf("get user: %w", err)
	}

	now := m.now()
	fields := map[string]any{
		"name":         profile.Name,
		"email":        profile.Email,
		FieldUpdatedAt: now,
	}
	if isNew {
		fields[FieldCreatedAt] = now
	}
	return m.upsert(ctx, CollectionUsers, profile.Email, fields)
}

// Ping checks the store through the breaker.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.call(func() error { return m.store.Ping(ctx) })
}

// Close releases the store.
func (m *Mirror) Close(ctx context.Context) error {
	return m.store.Close(ctx)
}
