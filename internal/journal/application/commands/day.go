package commands

import (
	"context"
)

// BoundaryChecker runs the day-boundary check.
type BoundaryChecker interface {
	Check(ctx context.Context) (bool, error)
}

// DayHandler handles the day-level intents.
type DayHandler struct {
	store   DayStore
	monitor BoundaryChecker
	saver   Flusher
}

// NewDayHandler creates a new DayHandler.
func NewDayHandler(store DayStore, monitor BoundaryChecker, saver Flusher) *DayHandler {
	return &DayHandler{store: store, monitor: monitor, saver: saver}
}

// Check reports whether the day rolled over and the entry was reset.
func (h *DayHandler) Check(ctx context.Context) (bool, error) {
	return h.monitor.Check(ctx)
}

// Reset starts today over with an empty entry and saves it.
func (h *DayHandler) Reset(ctx context.Context) error {
	if err := h.store.ResetEntry(ctx); err != nil {
		return err
	}
	return h.saver.Flush(ctx)
}
