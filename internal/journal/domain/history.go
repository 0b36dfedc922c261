package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

// HistoryKind separates the two journals.
type HistoryKind string

const (
	HistoryActivity HistoryKind = "activity"
	HistoryTime     HistoryKind = "time"
)

func (k HistoryKind) IsValid() bool {
	return k == HistoryActivity || k == HistoryTime
}

// HistoryEntry is an immutable point-in-time record of an activity. Edits
// to an activity append a new entry; existing entries are never changed.
type HistoryEntry struct {
	ID            uuid.UUID    `json:"id"`
	Kind          HistoryKind  `json:"kind"`
	ActivityID    uuid.UUID    `json:"activityId"`
	ActivityIcon  ActivityIcon `json:"activityIcon"`
	ActivityLabel string       `json:"activityLabel"`
	Duration      int          `json:"duration"`
	Timestamp     time.Time    `json:"timestamp"`
	Date          LocalDate    `json:"date"`
	Facets        Facets       `json:"facets,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	EnergyImpact  *int         `json:"energyImpact,omitempty"`
}

// NewHistoryEntry records activity as it is at, belonging to date.
func NewHistoryEntry(kind HistoryKind, activity Activity, date LocalDate, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:            shared.NewID(),
		Kind:          kind,
		ActivityID:    activity.ID,
		ActivityIcon:  activity.Icon,
		ActivityLabel: activity.Label,
		Duration:      activity.Duration,
		Timestamp:     at.UTC(),
		Date:          date,
		Facets:        activity.Facets.Clone(),
		Notes:         activity.Notes,
		EnergyImpact:  activity.Facets.EnergyImpact(),
	}
}

// SortHistory orders entries newest day first, then newest instant first.
func SortHistory(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

// FilterHistory keeps entries of kind whose date is within the trailing
// window [today-days, today], sorted with SortHistory.
func FilterHistory(entries []HistoryEntry, kind HistoryKind, today LocalDate, days int) []HistoryEntry {
	from := today.AddDays(-days)
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == kind && e.Date.Within(from, today) {
			out = append(out, e)
		}
	}
	SortHistory(out)
	return out
}
