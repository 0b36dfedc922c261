package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// DayBoundaryMonitor detects that the calendar day moved on since the last
// save and resets the current entry.
type DayBoundaryMonitor struct {
	flags   domain.FlagRepository
	store   *DayStore
	clock   domain.Clock
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewDayBoundaryMonitor creates a DayBoundaryMonitor.
func NewDayBoundaryMonitor(flags domain.FlagRepository, store *DayStore, clock domain.Clock, logger *slog.Logger, metrics observability.Metrics) *DayBoundaryMonitor {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DayBoundaryMonitor{
		flags:   flags,
		store:   store,
		clock:   clock,
		logger:  observability.OrDefault(logger).With("component", "day_boundary"),
		metrics: metrics,
	}
}

// Check compares the last active date and the date of the entry in memory
// with today. It reports true when it reset the entry. On first run it only
// records today.
func (m *DayBoundaryMonitor) Check(ctx context.Context) (bool, error) {
	last, err := m.flags.Get(ctx, domain.FlagLastActiveDate)
	if err != nil {
		return false, fmt.Errorf("read last active date: %w", err)
	}
	today := m.clock.Today()
	// A save after midnight stamps today while the entry still holds
	// yesterday, so the flag alone can miss the rollover.
	entryDate := m.store.Date()

	if entryDate == today {
		switch last {
		case "":
			if err := m.flags.Set(ctx, domain.FlagLastActiveDate, today.String()); err != nil {
				return false, fmt.Errorf("stamp last active date: %w", err)
			}
			return false, nil
		case today.String():
			return false, nil
		}
	}

	if err := m.store.ResetEntry(ctx); err != nil {
		return true, fmt.Errorf("reset entry: %w", err)
	}
	m.metrics.Counter(observability.MetricDayResets, 1)
	m.logger.InfoContext(ctx, "day boundary crossed", "last_active", last, "entry_date", entryDate, "today", today)
	return true, nil
}
