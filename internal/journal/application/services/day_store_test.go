package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/sanitize"
)

func TestDayStore_ExerciseAndWorkScenario(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	exercise, err := h.store.AddActivity(ctx, activityInput(domain.IconExercise, 45))
	require.NoError(t, err)
	_, err = h.store.AddActivity(ctx, activityInput(domain.IconWork, 500))
	require.NoError(t, err)
	assert.Equal(t, 545, h.store.Current().TotalMinutes())

	require.NoError(t, h.store.RemoveActivity(ctx, exercise.ID))
	assert.Equal(t, 500, h.store.Current().TotalMinutes())

	assert.Equal(t, 2, h.history.Len(domain.HistoryActivity))
	assert.Equal(t, 2, h.history.Len(domain.HistoryTime))

	stored, err := h.historyR.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
	var exerciseEntries int
	for _, e := range stored {
		if e.ActivityID == exercise.ID {
			exerciseEntries++
		}
	}
	assert.Equal(t, 2, exerciseEntries, "removing an activity keeps its history")
}

// The store does not enforce the daily capacity: that check belongs to
// the command layer.
func TestDayStore_AddActivityDoesNotEnforceCapacity(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput(domain.IconWork, 1000))
	require.NoError(t, err)
	_, err = h.store.AddActivity(ctx, activityInput(domain.IconRest, 1000))
	require.NoError(t, err)

	entry := h.store.Current()
	assert.Equal(t, 2000, entry.TotalMinutes())
	assert.Len(t, entry.Activities(), 2)
}

func TestDayStore_AddActivityWithinIsAtomic(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.store.AddActivityWithin(ctx, activityInput(domain.IconWork, 800), sanitize.CheckDayCapacity)
		}()
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, sanitize.ErrDayCapacityExceeded)
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 800, h.store.Current().TotalMinutes())
}

func TestDayStore_UpdateActivityDurationWithin(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput(domain.IconWork, 600))
	require.NoError(t, err)
	target, err := h.store.AddActivity(ctx, activityInput(domain.IconRest, 600))
	require.NoError(t, err)

	updated, err := h.store.UpdateActivityDurationWithin(ctx, target.ID, 840, sanitize.CheckDayCapacity)
	require.NoError(t, err)
	assert.Equal(t, 840, updated.Duration)

	_, err = h.store.UpdateActivityDurationWithin(ctx, target.ID, 841, sanitize.CheckDayCapacity)
	assert.ErrorIs(t, err, sanitize.ErrDayCapacityExceeded)
	assert.Equal(t, 1440, h.store.Current().TotalMinutes())

	_, err = h.store.UpdateActivityDurationWithin(ctx, uuid.New(), 10, sanitize.CheckDayCapacity)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestDayStore_AddActivityRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput("juggling", 10))
	assert.ErrorIs(t, err, domain.ErrInvalidIcon)

	_, err = h.store.AddActivity(ctx, activityInput(domain.IconWork, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	assert.Empty(t, h.store.Current().Activities())
	assert.Empty(t, h.history.Entries())
}

func TestDayStore_UpdateDurationAppendsOneTimeEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	a, err := h.store.AddActivity(ctx, activityInput(domain.IconStudy, 30))
	require.NoError(t, err)
	before := h.history.Entries()
	require.Len(t, before, 2)

	updated, err := h.store.UpdateActivityDuration(ctx, a.ID, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, updated.Duration)
	assert.Equal(t, 90, h.store.Current().TotalMinutes())

	after := h.history.Entries()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)], "earlier entries are unchanged")

	last := after[len(after)-1]
	assert.Equal(t, domain.HistoryTime, last.Kind)
	assert.Equal(t, a.ID, last.ActivityID)
	assert.Equal(t, 90, last.Duration)
	assert.Equal(t, 30, before[1].Duration)
}

func TestDayStore_UpdateFacetsAppendsActivityEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	a, err := h.store.AddActivity(ctx, activityInput(domain.IconExercise, 40))
	require.NoError(t, err)

	energy, err := domain.Rating(5)
	require.NoError(t, err)
	_, err = h.store.UpdateActivityFacets(ctx, a.ID, domain.Facets{domain.EnergyFacet: energy}, "long run")
	require.NoError(t, err)

	activities := h.history.ActivityHistory(7)
	require.Len(t, activities, 2)
	var withNotes *domain.HistoryEntry
	for i := range activities {
		if activities[i].Notes == "long run" {
			withNotes = &activities[i]
		}
	}
	require.NotNil(t, withNotes)
	require.NotNil(t, withNotes.EnergyImpact)
	assert.Equal(t, 2, *withNotes.EnergyImpact)
}

func TestDayStore_MissingIDs(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, h.store.RemoveActivity(ctx, uuid.New()), domain.ErrActivityNotFound)
	assert.ErrorIs(t, h.store.RemoveTask(ctx, uuid.New()), domain.ErrTaskNotFound)
	_, err := h.store.ToggleTask(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = h.store.UpdateActivityDuration(ctx, uuid.New(), 10)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	assert.Empty(t, h.history.Entries())
	_, err = h.entries.FindByDate(ctx, h.clock.Today())
	assert.ErrorIs(t, err, domain.ErrEntryNotFound, "failed intents do not save")
}

func TestDayStore_EveryDurableIntentSaves(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	saver := &recordingSaver{}
	h.store.SetAutosaver(saver)

	task, err := h.store.AddTask(ctx, "water plants")
	require.NoError(t, err)
	_, err = h.store.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, h.store.RemoveTask(ctx, task.ID))
	require.NoError(t, h.store.SetDayIntention(ctx, "slow down"))
	require.NoError(t, h.store.SetReflection(ctx, domain.Reflection{Highlights: "sun"}))
	require.NoError(t, h.store.SetDiaryNote(ctx, "quiet morning"))

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, 6, saver.saves, "removeTask persists like toggleTask")
	assert.Empty(t, saver.scheduled)
}

func TestDayStore_ZeroDelaySavesBeforeReturning(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddTask(ctx, "water plants")
	require.NoError(t, err)

	saved, err := h.entries.FindByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, saved.Tasks, 1)
	assert.Equal(t, "water plants", saved.Tasks[0].Text)
	assert.Equal(t, h.store.Snapshot().Revision, saved.Revision)
}

func TestDayStore_DebouncedDelays(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	saver := &recordingSaver{}
	h.store = NewDayStore(h.clock, h.flags, h.uow, h.history, DefaultDelays(), nil)
	h.store.SetAutosaver(saver)

	_, err := h.store.AddTask(ctx, "call mum")
	require.NoError(t, err)
	require.NoError(t, h.store.SetDiaryNote(ctx, "draft"))

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, 0, saver.saves)
	assert.Equal(t, []time.Duration{DefaultAutosaveDelay, DefaultDiaryAutosaveDelay}, saver.scheduled)
}

func TestDayStore_UnchangedValueDoesNotSave(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	saver := &recordingSaver{}
	h.store.SetAutosaver(saver)

	require.NoError(t, h.store.SetDiaryNote(ctx, "same"))
	require.NoError(t, h.store.SetDiaryNote(ctx, "same"))

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.Equal(t, 1, saver.saves)
}

func TestDayStore_CheckInMarksToday(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	assert.False(t, h.store.HasCompletedCheckIn())
	err := h.store.SetEmotionalCheckIn(ctx, domain.EmotionalCheckIn{})
	assert.ErrorIs(t, err, domain.ErrFeelingRequired)
	assert.False(t, h.store.HasCompletedCheckIn())

	require.NoError(t, h.store.SetEmotionalCheckIn(ctx, domain.EmotionalCheckIn{Feeling: "rested"}))
	assert.True(t, h.store.HasCompletedCheckIn())
	assert.Equal(t, "2024-01-01", h.flag(t, domain.FlagLastCheckinDate))
}

func TestDayStore_DayStoryRequiresMostSignificant(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	err := h.store.SetDayStory(ctx, &domain.DayStory{HowStarted: "late"})
	assert.ErrorIs(t, err, domain.ErrMostSignificantRequired)

	require.NoError(t, h.store.SetDayStory(ctx, &domain.DayStory{MostSignificant: "finished the draft"}))
	require.NotNil(t, h.store.Current().DayStory())

	require.NoError(t, h.store.SetDayStory(ctx, nil))
	assert.Nil(t, h.store.Current().DayStory())
}

func TestDayStore_ResetEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.store.AddActivity(ctx, activityInput(domain.IconWork, 60))
	require.NoError(t, err)
	require.NoError(t, h.store.SetEmotionalCheckIn(ctx, domain.EmotionalCheckIn{Feeling: "ok"}))
	oldID := h.store.Snapshot().ID

	h.clock.Set(domain.ClockAt("2024-01-02").Now())
	require.NoError(t, h.store.ResetEntry(ctx))

	entry := h.store.Current()
	assert.Equal(t, domain.LocalDate("2024-01-02"), entry.Date())
	assert.True(t, entry.IsEmpty())
	assert.NotEqual(t, oldID, entry.ID())
	assert.False(t, h.store.HasCompletedCheckIn())
	assert.Equal(t, "2024-01-02", h.flag(t, domain.FlagLastActiveDate))
	assert.Equal(t, "", h.flag(t, domain.FlagLastCheckinDate))
}
