package queries

import (
	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// DefaultHistoryDays is the window used when none is given.
const DefaultHistoryDays = 7

// HistoryReader reads the in-memory journal.
type HistoryReader interface {
	ActivityHistory(days int) []domain.HistoryEntry
	TimeHistory(days int) []domain.HistoryEntry
}

// GetHistoryQuery selects one journal and a trailing window of days.
type GetHistoryQuery struct {
	Kind domain.HistoryKind
	Days int
}

// HistorySummary totals a window of history.
type HistorySummary struct {
	Entries      []domain.HistoryEntry
	TotalMinutes int
	// ByIcon sums minutes per category from the newest time entry of each
	// activity. Activity windows leave it empty.
	ByIcon map[domain.ActivityIcon]int
}

// GetHistoryHandler handles GetHistoryQuery.
type GetHistoryHandler struct {
	history HistoryReader
}

// NewGetHistoryHandler creates a new GetHistoryHandler.
func NewGetHistoryHandler(history HistoryReader) *GetHistoryHandler {
	return &GetHistoryHandler{history: history}
}

func (h *GetHistoryHandler) Handle(query GetHistoryQuery) HistorySummary {
	days := query.Days
	if days <= 0 {
		days = DefaultHistoryDays
	}

	var entries []domain.HistoryEntry
	if query.Kind == domain.HistoryTime {
		entries = h.history.TimeHistory(days)
	} else {
		entries = h.history.ActivityHistory(days)
	}

	summary := HistorySummary{Entries: entries, ByIcon: make(map[domain.ActivityIcon]int)}
	if query.Kind != domain.HistoryTime {
		return summary
	}
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if seen[e.ActivityID] {
			continue
		}
		seen[e.ActivityID] = true
		summary.TotalMinutes += e.Duration
		summary.ByIcon[e.ActivityIcon] += e.Duration
	}
	return summary
}
