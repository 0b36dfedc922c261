package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// HistoryRecorder is the append-only activity and time journal. Entries are
// written locally before a call returns; the remote copy is pushed in the
// background and marked synced once acknowledged.
type HistoryRecorder struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry

	repo    domain.HistoryRepository
	mirror  domain.RemoteMirror
	profile ProfileProvider
	clock   domain.Clock
	timeout time.Duration
	logger  *slog.Logger
	metrics observability.Metrics

	inflight sync.WaitGroup
}

// NewHistoryRecorder creates a HistoryRecorder.
func NewHistoryRecorder(
	repo domain.HistoryRepository,
	mirror domain.RemoteMirror,
	profile ProfileProvider,
	clock domain.Clock,
	remoteTimeout time.Duration,
	logger *slog.Logger,
	metrics observability.Metrics,
) *HistoryRecorder {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &HistoryRecorder{
		repo:    repo,
		mirror:  mirror,
		profile: profile,
		clock:   clock,
		timeout: remoteTimeout,
		logger:  observability.OrDefault(logger).With("component", "history"),
		metrics: metrics,
	}
}

// Load replaces the in-memory journal with the local store's contents.
func (r *HistoryRecorder) Load(ctx context.Context) error {
	entries, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// LogActivity records an activity snapshot for date.
func (r *HistoryRecorder) LogActivity(ctx context.Context, activity domain.Activity, date domain.LocalDate) (domain.HistoryEntry, error) {
	return r.record(ctx, domain.HistoryActivity, activity, date)
}

// LogTime records a time-spent snapshot for date.
func (r *HistoryRecorder) LogTime(ctx context.Context, activity domain.Activity, date domain.LocalDate) (domain.HistoryEntry, error) {
	return r.record(ctx, domain.HistoryTime, activity, date)
}

func (r *HistoryRecorder) record(ctx context.Context, kind domain.HistoryKind, activity domain.Activity, date domain.LocalDate) (domain.HistoryEntry, error) {
	entry := domain.NewHistoryEntry(kind, activity, date, r.clock.Now())
	if err := r.repo.Append(ctx, entry); err != nil {
		r.metrics.Counter(observability.MetricLocalWriteErrors, 1, observability.T("store", "history"))
		return domain.HistoryEntry{}, fmt.Errorf("append %s history: %w", kind, err)
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	r.metrics.Counter(observability.MetricHistoryAppended, 1, observability.T("kind", string(kind)))

	r.pushAsync(entry)
	return entry, nil
}

func (r *HistoryRecorder) owner() string {
	if !r.mirror.Enabled() {
		return ""
	}
	return r.profile.Profile().Email
}

func (r *HistoryRecorder) pushAsync(entry domain.HistoryEntry) {
	owner := r.owner()
	if owner == "" {
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		ctx, cancel := withTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.push(ctx, owner, entry); err != nil {
			r.logger.Warn("history entry not mirrored", "entry_id", entry.ID, "error", err)
		}
	}()
}

func (r *HistoryRecorder) push(ctx context.Context, owner string, entry domain.HistoryEntry) error {
	if err := r.mirror.AppendHistory(ctx, owner, entry); err != nil {
		return err
	}
	if err := r.repo.MarkSynced(ctx, entry); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// ResyncPending pushes every entry the remote has not acknowledged, in
// order, and returns how many were pushed. It stops at the first failure.
func (r *HistoryRecorder) ResyncPending(ctx context.Context) (int, error) {
	owner := r.owner()
	if owner == "" {
		return 0, nil
	}
	pending, err := r.repo.ListUnsynced(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unsynced history: %w", err)
	}
	for i, entry := range pending {
		remoteCtx, cancel := withTimeout(ctx, r.timeout)
		err := r.push(remoteCtx, owner, entry)
		cancel()
		if err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

// ActivityHistory returns activity entries in the trailing window of days.
func (r *HistoryRecorder) ActivityHistory(days int) []domain.HistoryEntry {
	return r.filter(domain.HistoryActivity, days)
}

// TimeHistory returns time entries in the trailing window of days.
func (r *HistoryRecorder) TimeHistory(days int) []domain.HistoryEntry {
	return r.filter(domain.HistoryTime, days)
}

func (r *HistoryRecorder) filter(kind domain.HistoryKind, days int) []domain.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.FilterHistory(r.entries, kind, r.clock.Today(), days)
}

// Len returns the number of entries of kind.
func (r *HistoryRecorder) Len(kind domain.HistoryKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Entries returns a copy of the whole journal in append order.
func (r *HistoryRecorder) Entries() []domain.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Wait blocks until background remote writes finish.
func (r *HistoryRecorder) Wait() {
	r.inflight.Wait()
}
