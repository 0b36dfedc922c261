// Package queries contains the read models of the journal.
package queries

import (
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// TodayReader exposes the entry in memory.
type TodayReader interface {
	Current() *domain.DayEntry
	HasCompletedCheckIn() bool
}

// TodayView is the current day as shown to the user.
type TodayView struct {
	Entry        domain.EntrySnapshot
	TotalMinutes int
	CheckedIn    bool
	// CapacityLeft is how many minutes can still be logged today.
	CapacityLeft int
}

// GetTodayHandler handles the today query.
type GetTodayHandler struct {
	store TodayReader
}

// NewGetTodayHandler creates a new GetTodayHandler.
func NewGetTodayHandler(store TodayReader) *GetTodayHandler {
	return &GetTodayHandler{store: store}
}

func (h *GetTodayHandler) Handle() TodayView {
	entry := h.store.Current()
	total := entry.TotalMinutes()
	return TodayView{
		Entry:        entry.Snapshot(),
		TotalMinutes: total,
		CheckedIn:    h.store.HasCompletedCheckIn(),
		CapacityLeft: max(domain.MaxDayMinutes-total, 0),
	}
}
