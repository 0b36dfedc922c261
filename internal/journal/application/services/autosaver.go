package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/application"
	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// DefaultRemoteTimeout bounds each remote call.
const DefaultRemoteTimeout = 10 * time.Second

// EntrySource supplies the entry to save and the events it raised.
type EntrySource interface {
	Snapshot() domain.EntrySnapshot
	DrainEvents() []shared.DomainEvent
}

// AutosaverDeps are the collaborators of an Autosaver.
type AutosaverDeps struct {
	Source    EntrySource
	Entries   domain.EntryRepository
	Flags     domain.FlagRepository
	UoW       application.UnitOfWork
	Mirror    domain.RemoteMirror
	Profile   ProfileProvider
	Publisher eventbus.Publisher
	Status    *SyncStatus
	Clock     domain.Clock
	Logger    *slog.Logger
	Metrics   observability.Metrics
	// RemoteTimeout bounds the remote write of one save.
	RemoteTimeout time.Duration
}

// Autosaver persists the current entry: locally first and always, then to
// the remote mirror when a user email is known. Remote failures never
// reach the caller. Saves are serialized.
type Autosaver struct {
	deps    AutosaverDeps
	logger  *slog.Logger
	metrics observability.Metrics

	saveMu sync.Mutex

	timerMu  sync.Mutex
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup
}

// NewAutosaver creates an Autosaver.
func NewAutosaver(deps AutosaverDeps) *Autosaver {
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.Publisher == nil {
		deps.Publisher = eventbus.NewNoopPublisher(deps.Logger)
	}
	if deps.Status == nil {
		deps.Status = NewSyncStatus(nil)
	}
	if deps.RemoteTimeout == 0 {
		deps.RemoteTimeout = DefaultRemoteTimeout
	}
	return &Autosaver{
		deps:    deps,
		logger:  observability.OrDefault(deps.Logger).With("component", "autosave"),
		metrics: deps.Metrics,
	}
}

// Save writes the entry now. Only a local failure is returned.
func (a *Autosaver) Save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	timer := observability.StartTimer(a.metrics, observability.MetricAutosaveDuration)
	defer timer.Stop()
	a.metrics.Counter(observability.MetricAutosaveTotal, 1)

	today := a.deps.Clock.Today()
	snap := a.deps.Source.Snapshot()

	err := application.WithUnitOfWork(ctx, a.deps.UoW, func(ctx context.Context) error {
		if err := a.deps.Flags.Set(ctx, domain.FlagLastActiveDate, today.String()); err != nil {
			return fmt.Errorf("stamp last active date: %w", err)
		}
		if err := a.deps.Entries.Save(ctx, snap.Date, snap); err != nil {
			return fmt.Errorf("save entry %s: %w", snap.Date, err)
		}
		return nil
	})
	if err != nil {
		a.metrics.Counter(observability.MetricLocalWriteErrors, 1, observability.T("store", "entries"))
		a.deps.Status.localFailed(err)
		return fmt.Errorf("autosave: %w", err)
	}
	a.deps.Status.localSaved(a.deps.Clock.Now())

	owner := a.deps.Profile.Profile().Email
	a.publish(ctx, owner)
	a.mirror(ctx, owner, snap)
	return nil
}

func (a *Autosaver) publish(ctx context.Context, owner string) {
	events := a.deps.Source.DrainEvents()
	if len(events) == 0 {
		return
	}
	n, err := eventbus.PublishEvents(ctx, a.deps.Publisher, events, application.NewEventMetadata(ctx, owner))
	a.metrics.Counter(observability.MetricEventsPublished, int64(n))
	if err != nil {
		a.metrics.Counter(observability.MetricEventsFailed, int64(len(events)-n))
		a.logger.WarnContext(ctx, "domain events not published", "published", n, "total", len(events), "error", err)
	}
}

func (a *Autosaver) mirror(ctx context.Context, owner string, snap domain.EntrySnapshot) {
	if owner == "" || !a.deps.Mirror.Enabled() {
		return
	}

	remoteCtx, cancel := withTimeout(ctx, a.deps.RemoteTimeout)
	defer cancel()
	if err := a.deps.Mirror.SaveEntry(remoteCtx, owner, snap); err != nil {
		a.logger.WarnContext(ctx, "entry saved locally, remote sync pending",
			"date", snap.Date,
			"revision", snap.Revision,
			"error", err,
		)
		if err := a.deps.Status.remoteFailed(ctx, err); err != nil {
			a.logger.WarnContext(ctx, "sync status not stored", "error", err)
		}
		return
	}
	if err := a.deps.Status.remoteSynced(ctx, a.deps.Clock.Now()); err != nil {
		a.logger.WarnContext(ctx, "sync status not stored", "error", err)
	}
}

// Schedule saves after delay. A later call replaces a pending one.
func (a *Autosaver) Schedule(delay time.Duration) {
	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	if a.closed {
		return
	}
	a.stopTimerLocked()

	a.inflight.Add(1)
	a.timer = time.AfterFunc(delay, func() {
		defer a.inflight.Done()
		ctx := observability.WithOperation(context.Background(), "autosave")
		if err := a.Save(ctx); err != nil {
			a.logger.Error("scheduled autosave failed", "error", err)
		}
	})
}

// stopTimerLocked cancels a pending timer. Callers hold timerMu.
func (a *Autosaver) stopTimerLocked() bool {
	if a.timer == nil {
		return false
	}
	stopped := a.timer.Stop()
	if stopped {
		a.inflight.Done()
	}
	a.timer = nil
	return stopped
}

// Flush cancels a pending save and saves now.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.timerMu.Lock()
	a.stopTimerLocked()
	a.timerMu.Unlock()
	return a.Save(ctx)
}

// Close flushes a pending save, refuses new ones and waits for saves that
// already started.
func (a *Autosaver) Close(ctx context.Context) error {
	a.timerMu.Lock()
	a.closed = true
	hadPending := a.stopTimerLocked()
	a.timerMu.Unlock()

	var err error
	if hadPending {
		err = a.Save(ctx)
	}
	a.inflight.Wait()
	return err
}
