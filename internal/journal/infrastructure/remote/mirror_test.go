package remote

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

const owner = "ada@example.com"

func newTestMirror(t *testing.T, store DocumentStore) (*Mirror, *domain.FixedClock, *observability.InMemoryMetrics) {
	t.Helper()
	clock := domain.NewFixedClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	metrics := observability.NewInMemoryMetrics()
	m := NewMirror(store, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, clock, nil, metrics)
	return m, clock, metrics
}

func sampleSnapshot(t *testing.T, date domain.LocalDate) domain.EntrySnapshot {
	t.Helper()
	entry := domain.NewDayEntry(date)
	energy, err := domain.Rating(4)
	require.NoError(t, err)
	a, err := domain.NewActivity(domain.NewActivityInput{
		Icon:     domain.IconExercise,
		Label:    "Run",
		Duration: 45,
		Facets:   domain.Facets{"energy": energy},
	}, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	entry.AddActivity(a)
	entry.SetDiaryNote("windy")
	return entry.Snapshot()
}

func TestMirror_SaveAndGetEntry(t *testing.T) {
	store := NewMemoryStore()
	m, _, metrics := newTestMirror(t, store)
	ctx := context.Background()
	snap := sampleSnapshot(t, "2024-03-10")

	require.NoError(t, m.SaveEntry(ctx, owner, snap))

	raw, err := store.Get(ctx, CollectionDailyEntries, "ada@example.com_2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, owner, raw[FieldOwner])
	assert.Equal(t, "2024-03-10T09:00:00Z", raw[FieldUpdatedAt])
	assert.Equal(t, 1, store.Count(CollectionUsers))

	got, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Revision, got.Revision)
	assert.Equal(t, 45, got.TotalMinutes)
	assert.Equal(t, "windy", got.DiaryNote)
	require.Len(t, got.Activities, 1)
	rating, ok := got.Activities[0].Facets["energy"].AsRating()
	require.True(t, ok)
	assert.Equal(t, 4, rating)

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricRemoteWriteTotal, observability.T("collection", CollectionDailyEntries)))
}

func TestMirror_GetEntryMissing(t *testing.T) {
	m, _, _ := newTestMirror(t, NewMemoryStore())

	got, err := m.GetEntry(context.Background(), owner, "2024-03-10")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMirror_SkipsStaleRevision(t *testing.T) {
	store := NewMemoryStore()
	m, _, metrics := newTestMirror(t, store)
	ctx := context.Background()

	newer := sampleSnapshot(t, "2024-03-10")
	newer.Revision = 5
	older := newer
	older.Revision = 3
	older.DiaryNote = "stale"

	require.NoError(t, m.SaveEntry(ctx, owner, newer))
	require.NoError(t, m.SaveEntry(ctx, owner, older))

	got, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Revision)
	assert.Equal(t, "windy", got.DiaryNote)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricRemoteWriteSkip))
}

func TestMirror_EqualRevisionIsRewritten(t *testing.T) {
	m, _, metrics := newTestMirror(t, NewMemoryStore())
	ctx := context.Background()
	snap := sampleSnapshot(t, "2024-03-10")

	require.NoError(t, m.SaveEntry(ctx, owner, snap))
	require.NoError(t, m.SaveEntry(ctx, owner, snap))

	assert.Zero(t, metrics.GetCounter(observability.MetricRemoteWriteSkip))
}

// assertClearedFieldsOverwrite saves an entry with optional fields set, saves
// it again with them cleared, and checks the remote copy follows.
func assertClearedFieldsOverwrite(t *testing.T, store DocumentStore) {
	t.Helper()
	m, _, _ := newTestMirror(t, store)
	ctx := context.Background()

	filled := sampleSnapshot(t, "2024-03-10")
	filled.DayIntention = "focus"
	filled.DayStory = &domain.DayStory{MostSignificant: "met Bob"}
	filled.EmotionalCheckIn = &domain.EmotionalCheckIn{Feeling: "calm"}
	require.NoError(t, m.SaveEntry(ctx, owner, filled))

	cleared := filled
	cleared.Revision++
	cleared.DayIntention = ""
	cleared.DayStory = nil
	cleared.EmotionalCheckIn = nil
	require.NoError(t, m.SaveEntry(ctx, owner, cleared))

	got, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cleared.Revision, got.Revision)
	assert.Empty(t, got.DayIntention)
	assert.Nil(t, got.DayStory)
	assert.Nil(t, got.EmotionalCheckIn)
}

func TestMirror_ClearedFieldsOverwriteRemote(t *testing.T) {
	assertClearedFieldsOverwrite(t, NewMemoryStore())
}

func TestMirror_ResetEntryIsNotStale(t *testing.T) {
	m, _, _ := newTestMirror(t, NewMemoryStore())
	ctx := context.Background()

	before := sampleSnapshot(t, "2024-03-10")
	before.Revision = 9
	require.NoError(t, m.SaveEntry(ctx, owner, before))

	fresh := domain.NewDayEntry("2024-03-10").Snapshot()
	require.NoError(t, m.SaveEntry(ctx, owner, fresh))

	got, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
	assert.Empty(t, got.Activities)
}

func TestMirror_ListEntriesScopedAndSorted(t *testing.T) {
	m, _, _ := newTestMirror(t, NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.SaveEntry(ctx, owner, sampleSnapshot(t, "2024-03-08")))
	require.NoError(t, m.SaveEntry(ctx, owner, sampleSnapshot(t, "2024-03-10")))
	require.NoError(t, m.SaveEntry(ctx, "grace@example.com", sampleSnapshot(t, "2024-03-09")))

	entries, err := m.ListEntries(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.LocalDate("2024-03-10"), entries[0].Date)
	assert.Equal(t, domain.LocalDate("2024-03-08"), entries[1].Date)
}

func TestMirror_History(t *testing.T) {
	store := NewMemoryStore()
	m, _, _ := newTestMirror(t, store)
	ctx := context.Background()
	activity := sampleSnapshot(t, "2024-03-10").Activities[0]

	first := domain.NewHistoryEntry(domain.HistoryActivity, activity, "2024-03-09", time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC))
	second := domain.NewHistoryEntry(domain.HistoryActivity, activity, "2024-03-10", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	timed := domain.NewHistoryEntry(domain.HistoryTime, activity, "2024-03-10", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	for _, e := range []domain.HistoryEntry{first, second, timed} {
		require.NoError(t, m.AppendHistory(ctx, owner, e))
	}
	assert.Equal(t, 2, store.Count(CollectionActivityHistory))
	assert.Equal(t, 1, store.Count(CollectionTimeHistory))

	got, err := m.ListHistory(ctx, owner, domain.HistoryActivity)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	require.NotNil(t, got[0].EnergyImpact)
	assert.Equal(t, 1, *got[0].EnergyImpact)

	others, err := m.ListHistory(ctx, "grace@example.com", domain.HistoryActivity)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestMirror_SaveProfileKeepsCreatedAt(t *testing.T) {
	store := NewMemoryStore()
	m, clock, _ := newTestMirror(t, store)
	ctx := context.Background()

	require.NoError(t, m.SaveProfile(ctx, domain.Profile{Name: "Ada", Email: owner}))
	clock.Advance(24 * time.Hour)
	require.NoError(t, m.SaveProfile(ctx, domain.Profile{Name: "Ada L.", Email: owner}))

	doc, err := store.Get(ctx, CollectionUsers, owner)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", doc["name"])
	assert.Equal(t, "2024-03-10T09:00:00Z", doc[FieldCreatedAt])
	assert.Equal(t, "2024-03-11T09:00:00Z", doc[FieldUpdatedAt])
}

// failingStore fails every call and counts how often it was reached.
type failingStore struct {
	MemoryStore
	calls atomic.Int32
}

var errBoom = errors.New("boom")

func (s *failingStore) Get(context.Context, string, string) (map[string]any, error) {
	s.calls.Add(1)
	return nil, errBoom
}

func (s *failingStore) Upsert(context.Context, string, string, map[string]any) error {
	s.calls.Add(1)
	return errBoom
}

func TestMirror_OpenCircuitShortCircuits(t *testing.T) {
	store := &failingStore{}
	m, _, metrics := newTestMirror(t, store)
	ctx := context.Background()

	for range 2 {
		_, err := m.GetEntry(ctx, owner, "2024-03-10")
		require.ErrorIs(t, err, errBoom)
	}

	_, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	err = m.SaveEntry(ctx, owner, sampleSnapshot(t, "2024-03-10"))
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	assert.Equal(t, int32(2), store.calls.Load())
	assert.Positive(t, metrics.GetCounter(observability.MetricBreakerOpen))
}

func TestMirror_NotFoundDoesNotTrip(t *testing.T) {
	m, _, _ := newTestMirror(t, NewMemoryStore())
	ctx := context.Background()

	for range 5 {
		got, err := m.GetEntry(ctx, owner, domain.LocalDate("2024-03-10"))
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	require.NoError(t, m.Ping(ctx))
}

func TestEntryDocumentID(t *testing.T) {
	assert.Equal(t, "ada@example.com_2024-03-10", EntryDocumentID(owner, "2024-03-10"))
}

func TestNoopMirror(t *testing.T) {
	var m Remote = NoopMirror{}
	ctx := context.Background()

	assert.False(t, m.Enabled())
	require.NoError(t, m.SaveEntry(ctx, owner, domain.EntrySnapshot{ID: uuid.New()}))
	got, err := m.GetEntry(ctx, owner, "2024-03-10")
	require.NoError(t, err)
	assert.Nil(t, got)
}
