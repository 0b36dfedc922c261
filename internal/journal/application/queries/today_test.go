package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

type staticToday struct {
	entry     *domain.DayEntry
	checkedIn bool
}

func (s staticToday) Current() *domain.DayEntry { return s.entry }
func (s staticToday) HasCompletedCheckIn() bool { return s.checkedIn }

func TestGetTodayHandler_Handle(t *testing.T) {
	entry, err := domain.RestoreDayEntry(entryWith("2024-03-10", 500, 45))
	require.NoError(t, err)

	view := NewGetTodayHandler(staticToday{entry: entry, checkedIn: true}).Handle()
	assert.Equal(t, 545, view.TotalMinutes)
	assert.Equal(t, 895, view.CapacityLeft)
	assert.True(t, view.CheckedIn)
	assert.Len(t, view.Entry.Activities, 2)
}

func TestGetTodayHandler_OverfullDayHasNoCapacity(t *testing.T) {
	entry, err := domain.RestoreDayEntry(entryWith("2024-03-10", 1000, 1000))
	require.NoError(t, err)

	view := NewGetTodayHandler(staticToday{entry: entry}).Handle()
	assert.Zero(t, view.CapacityLeft)
}

type staticHistory []domain.HistoryEntry

func (h staticHistory) ActivityHistory(int) []domain.HistoryEntry { return h.only(domain.HistoryActivity) }
func (h staticHistory) TimeHistory(int) []domain.HistoryEntry     { return h.only(domain.HistoryTime) }

func (h staticHistory) only(kind domain.HistoryKind) []domain.HistoryEntry {
	var out []domain.HistoryEntry
	for _, e := range h {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestGetHistoryHandler_CountsNewestTimeEntryPerActivity(t *testing.T) {
	work, err := domain.NewActivity(domain.NewActivityInput{Icon: domain.IconWork, Duration: 30}, testNow)
	require.NoError(t, err)
	run, err := domain.NewActivity(domain.NewActivityInput{Icon: domain.IconExercise, Duration: 45}, testNow)
	require.NoError(t, err)
	updated := work
	updated.Duration = 90

	history := staticHistory{
		domain.NewHistoryEntry(domain.HistoryTime, updated, "2024-03-10", testNow.Add(time.Hour)),
		domain.NewHistoryEntry(domain.HistoryTime, run, "2024-03-10", testNow),
		domain.NewHistoryEntry(domain.HistoryTime, work, "2024-03-10", testNow),
		domain.NewHistoryEntry(domain.HistoryActivity, work, "2024-03-10", testNow),
	}
	handler := NewGetHistoryHandler(history)

	summary := handler.Handle(GetHistoryQuery{Kind: domain.HistoryTime, Days: 7})
	assert.Len(t, summary.Entries, 3)
	assert.Equal(t, 135, summary.TotalMinutes)
	assert.Equal(t, map[domain.ActivityIcon]int{domain.IconWork: 90, domain.IconExercise: 45}, summary.ByIcon)

	activities := handler.Handle(GetHistoryQuery{Kind: domain.HistoryActivity})
	assert.Len(t, activities.Entries, 1)
	assert.Zero(t, activities.TotalMinutes)
}

type memFlags map[domain.Flag]string

func (f memFlags) Get(_ context.Context, flag domain.Flag) (string, error) { return f[flag], nil }
func (f memFlags) Set(_ context.Context, flag domain.Flag, v string) error {
	f[flag] = v
	return nil
}
func (f memFlags) Delete(_ context.Context, flag domain.Flag) error {
	delete(f, flag)
	return nil
}

type staticSync services.SyncState

func (s staticSync) State() services.SyncState { return services.SyncState(s) }

func TestGetStatusHandler_Handle(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("local", observability.PingChecker(func(context.Context) error { return nil }, true))
	health.Register("remote", observability.PingChecker(func(context.Context) error { return errors.New("timeout") }, false))

	handler := NewGetStatusHandler(
		staticSync{Pending: true, LastError: "timeout"},
		signedIn,
		memFlags{domain.FlagLastActiveDate: "2024-03-09"},
		&stubMirror{enabled: true},
		domain.ClockAt("2024-03-10"),
		health,
	)

	view, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LocalDate("2024-03-10"), view.Today)
	assert.Equal(t, "2024-03-09", view.LastActiveDate)
	assert.Equal(t, "ada@example.com", view.Profile.Email)
	assert.True(t, view.RemoteEnabled)
	assert.True(t, view.Sync.Pending)
	require.Len(t, view.Health, 2)
	assert.Equal(t, observability.HealthStatusDegraded, view.Overall)
}
