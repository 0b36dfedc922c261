package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// DefaultDashboardDays is the dashboard window when none is given.
const DefaultDashboardDays = 30

// GetDashboardQuery selects a trailing window of days ending today.
type GetDashboardQuery struct {
	Days int
}

// IconMinutes is the time spent on one category.
type IconMinutes struct {
	Icon    domain.ActivityIcon
	Minutes int
}

// DashboardResult summarizes a window of entries.
type DashboardResult struct {
	From, To         domain.LocalDate
	DaysLogged       int
	TotalMinutes     int
	AverageMinutes   float64
	AverageDayRating float64
	RatedDays        int
	Moods            map[domain.Mood]int
	TopIcons         []IconMinutes
	TasksTotal       int
	TasksCompleted   int
	// TaskCompletionRate is in [0, 1]; zero when there were no tasks.
	TaskCompletionRate float64
	// CurrentStreak counts consecutive logged days ending today, or
	// yesterday when today has nothing yet.
	CurrentStreak int
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	entries domain.EntryRepository
	clock   domain.Clock
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(entries domain.EntryRepository, clock domain.Clock) *GetDashboardHandler {
	return &GetDashboardHandler{entries: entries, clock: clock}
}

func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*DashboardResult, error) {
	days := query.Days
	if days <= 0 {
		days = DefaultDashboardDays
	}
	today := h.clock.Today()
	from := today.AddDays(-(days - 1))

	window, err := h.entries.ListRange(ctx, from, today)
	if err != nil {
		return nil, fmt.Errorf("load dashboard entries: %w", err)
	}

	result := &DashboardResult{From: from, To: today, Moods: make(map[domain.Mood]int)}
	byIcon := make(map[domain.ActivityIcon]int)
	ratingSum := 0
	for _, s := range window {
		if !IsLogged(s) {
			continue
		}
		result.DaysLogged++
		for _, a := range s.Activities {
			result.TotalMinutes += a.Duration
			byIcon[a.Icon] += a.Duration
		}
		for _, t := range s.Tasks {
			result.TasksTotal++
			if t.Completed {
				result.TasksCompleted++
			}
		}
		if s.Reflection.Mood != "" {
			result.Moods[s.Reflection.Mood]++
		}
		if s.Reflection.DayRating != nil {
			result.RatedDays++
			ratingSum += *s.Reflection.DayRating
		}
	}

	if result.DaysLogged > 0 {
		result.AverageMinutes = float64(result.TotalMinutes) / float64(result.DaysLogged)
	}
	if result.RatedDays > 0 {
		result.AverageDayRating = float64(ratingSum) / float64(result.RatedDays)
	}
	if result.TasksTotal > 0 {
		result.TaskCompletionRate = float64(result.TasksCompleted) / float64(result.TasksTotal)
	}
	result.TopIcons = rankIcons(byIcon)

	all, err := h.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load streak entries: %w", err)
	}
	result.CurrentStreak = Streak(all, today)
	return result, nil
}

func rankIcons(byIcon map[domain.ActivityIcon]int) []IconMinutes {
	ranked := make([]IconMinutes, 0, len(byIcon))
	for icon, minutes := range byIcon {
		ranked = append(ranked, IconMinutes{Icon: icon, Minutes: minutes})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Minutes != ranked[j].Minutes {
			return ranked[i].Minutes > ranked[j].Minutes
		}
		return ranked[i].Icon < ranked[j].Icon
	})
	return ranked
}

// IsLogged reports whether anything was recorded on the entry's day.
func IsLogged(s domain.EntrySnapshot) bool {
	return len(s.Activities) > 0 || len(s.Tasks) > 0 || s.DiaryNote != "" ||
		s.EmotionalCheckIn != nil || s.DayStory != nil || s.DayIntention != "" ||
		s.Reflection.Highlights != "" || s.Reflection.Mood != "" || s.Reflection.DayRating != nil
}

// Streak counts consecutive logged days ending today, or ending yesterday
// when today is not logged yet.
func Streak(entries []domain.EntrySnapshot, today domain.LocalDate) int {
	logged := make(map[domain.LocalDate]bool, len(entries))
	for _, s := range entries {
		if IsLogged(s) {
			logged[s.Date] = true
		}
	}

	day := today
	if !logged[day] {
		day = day.AddDays(-1)
	}
	streak := 0
	for logged[day] {
		streak++
		day = day.AddDays(-1)
	}
	return streak
}
