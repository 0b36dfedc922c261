package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// MaxHeatmapDays bounds one heatmap query.
const MaxHeatmapDays = 366

var ErrInvalidRange = errors.New("invalid date range")

// GetHeatmapQuery selects an inclusive date range.
type GetHeatmapQuery struct {
	From domain.LocalDate
	To   domain.LocalDate
}

// HeatmapDay is one cell of the calendar.
type HeatmapDay struct {
	Date    domain.LocalDate
	Minutes int
	Level   int
}

// HeatLevel maps logged minutes to an intensity in 0..4.
func HeatLevel(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 60:
		return 1
	case minutes < 180:
		return 2
	case minutes < 360:
		return 3
	default:
		return 4
	}
}

// GetHeatmapHandler handles GetHeatmapQuery.
type GetHeatmapHandler struct {
	entries domain.EntryRepository
}

// NewGetHeatmapHandler creates a new GetHeatmapHandler.
func NewGetHeatmapHandler(entries domain.EntryRepository) *GetHeatmapHandler {
	return &GetHeatmapHandler{entries: entries}
}

// Handle returns one cell per day of the range, oldest first. Days
// without an entry have level 0.
func (h *GetHeatmapHandler) Handle(ctx context.Context, query GetHeatmapQuery) ([]HeatmapDay, error) {
	for _, d := range []domain.LocalDate{query.From, query.To} {
		if _, err := domain.ParseLocalDate(string(d)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRange, err)
		}
	}
	if query.To.Before(query.From) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, query.From, query.To)
	}
	if query.From.AddDays(MaxHeatmapDays).Before(query.To) {
		return nil, fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxHeatmapDays)
	}

	snaps, err := h.entries.ListRange(ctx, query.From, query.To)
	if err != nil {
		return nil, fmt.Errorf("load heatmap entries: %w", err)
	}
	minutes := make(map[domain.LocalDate]int, len(snaps))
	for _, s := range snaps {
		total := 0
		for _, a := range s.Activities {
			total += a.Duration
		}
		minutes[s.Date] = total
	}

	var days []HeatmapDay
	for d := query.From; !d.After(query.To); d = d.AddDays(1) {
		m := minutes[d]
		days = append(days, HeatmapDay{Date: d, Minutes: m, Level: HeatLevel(m)})
	}
	return days, nil
}
