package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

func TestDayBoundaryMonitor_ResetsOnNewDay(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput(domain.IconWork, 240))
	require.NoError(t, err)
	_, err = h.store.AddTask(ctx, "leftover")
	require.NoError(t, err)
	require.NoError(t, h.store.SetDiaryNote(ctx, "yesterday's note"))
	require.NoError(t, h.store.SetDayIntention(ctx, "focus"))
	require.Equal(t, "2024-01-01", h.flag(t, domain.FlagLastActiveDate))

	h.clock.Set(domain.ClockAt("2024-01-02").Now())
	reset, err := h.monitor.Check(ctx)
	require.NoError(t, err)
	assert.True(t, reset)

	entry := h.store.Current()
	assert.Equal(t, domain.LocalDate("2024-01-02"), entry.Date())
	assert.Empty(t, entry.Activities())
	assert.Empty(t, entry.Tasks())
	assert.Empty(t, entry.DiaryNote())
	assert.Empty(t, entry.DayIntention())
	assert.Nil(t, entry.EmotionalCheckIn())
	assert.Nil(t, entry.DayStory())
	assert.Zero(t, entry.TotalMinutes())
	assert.Equal(t, "2024-01-02", h.flag(t, domain.FlagLastActiveDate))
	assert.Equal(t, int64(1), h.metrics.GetCounter(observability.MetricDayResets))

	previous, err := h.entries.FindByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 240, previous.TotalMinutes, "yesterday stays in the cache")
}

func TestDayBoundaryMonitor_ResetsWhenSaveAfterMidnightStampedToday(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput(domain.IconWork, 60))
	require.NoError(t, err)

	h.clock.Set(domain.ClockAt("2024-01-02").Now())
	_, err = h.store.AddTask(ctx, "late edit")
	require.NoError(t, err)
	require.Equal(t, "2024-01-02", h.flag(t, domain.FlagLastActiveDate))
	require.Equal(t, domain.LocalDate("2024-01-01"), h.store.Date())

	reset, err := h.monitor.Check(ctx)
	require.NoError(t, err)
	assert.True(t, reset)

	entry := h.store.Current()
	assert.Equal(t, domain.LocalDate("2024-01-02"), entry.Date())
	assert.Empty(t, entry.Activities())
	assert.Empty(t, entry.Tasks())
	assert.Equal(t, int64(1), h.metrics.GetCounter(observability.MetricDayResets))

	previous, err := h.entries.FindByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, previous.Tasks, 1)
	assert.Equal(t, "late edit", previous.Tasks[0].Text)
}

func TestDayBoundaryMonitor_SameDayLeavesEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddTask(ctx, "keep me")
	require.NoError(t, err)
	before := h.store.Snapshot()

	h.clock.Advance(6 * time.Hour)
	reset, err := h.monitor.Check(ctx)
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, before, h.store.Snapshot())
}

func TestDayBoundaryMonitor_FirstRunStampsToday(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	before := h.store.Snapshot()

	reset, err := h.monitor.Check(ctx)
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, "2024-01-01", h.flag(t, domain.FlagLastActiveDate))
	assert.Equal(t, before, h.store.Snapshot())
}

func TestDayBoundaryMonitor_ResetEventPublishedOnNextSave(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.flags.Set(ctx, domain.FlagLastActiveDate, "2023-12-31"))

	reset, err := h.monitor.Check(ctx)
	require.NoError(t, err)
	require.True(t, reset)

	require.NoError(t, h.saver.Save(ctx))
	assert.Equal(t, int64(1), h.metrics.GetCounter(observability.MetricEventsConsumed, observability.T("routing_key", domain.RoutingEntryReset)))
}
