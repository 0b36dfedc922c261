// Package scheduler runs the day-boundary check on a cron schedule while
// the process stays up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/felixgeelhaar/daylog/pkg/observability"
)

const (
	DefaultBoundarySchedule = "@every 1m"
	defaultCheckTimeout     = 30 * time.Second
)

// BoundaryChecker runs one day-boundary check.
type BoundaryChecker interface {
	Check(ctx context.Context) (bool, error)
}

// BoundaryWatcher re-runs the day-boundary check on a schedule so a
// long-lived process rolls over at midnight.
type BoundaryWatcher struct {
	checker  BoundaryChecker
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger

	mu      sync.Mutex
	onReset []func(ctx context.Context)
	started bool
}

// ValidateSchedule parses spec as a standard cron expression or a
// descriptor such as "@every 1m".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid boundary schedule %q: %w", spec, err)
	}
	return nil
}

// NewBoundaryWatcher creates a watcher. An empty schedule uses
// DefaultBoundarySchedule; loc sets the zone of calendar expressions.
func NewBoundaryWatcher(checker BoundaryChecker, schedule string, loc *time.Location, logger *slog.Logger) *BoundaryWatcher {
	if schedule == "" {
		schedule = DefaultBoundarySchedule
	}
	if loc == nil {
		loc = time.Local
	}
	return &BoundaryWatcher{
		checker:  checker,
		schedule: schedule,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: observability.OrDefault(logger).With("component", "boundary_watcher"),
	}
}

// OnReset registers fn to run after a check that reset the entry.
func (w *BoundaryWatcher) OnReset(fn func(ctx context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReset = append(w.onReset, fn)
}

// Start schedules the check. It does not block.
func (w *BoundaryWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	if _, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
		defer cancel()
		w.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to add boundary check: %w", err)
	}
	w.cron.Start()
	w.started = true
	w.logger.Info("boundary watcher started", "schedule", w.schedule)
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (w *BoundaryWatcher) Stop() {
	w.mu.Lock()
	started := w.started
	w.started = false
	w.mu.Unlock()
	if !started {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("boundary watcher stopped")
}

// RunOnce runs a single check and reports whether it reset the entry.
func (w *BoundaryWatcher) RunOnce(ctx context.Context) bool {
	reset, err := w.checker.Check(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "boundary check failed", "error", err)
		return false
	}
	if !reset {
		return false
	}

	w.mu.Lock()
	hooks := append([]func(context.Context){}, w.onReset...)
	w.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx)
	}
	return true
}
