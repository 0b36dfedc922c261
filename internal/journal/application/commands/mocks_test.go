package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/daylog/internal/journal/application/services"
	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// mockDayStore is a mock implementation of DayStore.
type mockDayStore struct {
	mock.Mock
	entry *domain.DayEntry
}

func newMockDayStore() *mockDayStore {
	return &mockDayStore{entry: domain.NewDayEntry("2024-03-10")}
}

// AddActivityWithin runs check against the seeded entry the way the real
// store does before recording the call.
func (m *mockDayStore) AddActivityWithin(ctx context.Context, in domain.NewActivityInput, check func(int, int) error) (domain.Activity, error) {
	if err := check(m.entry.TotalMinutes(), in.Duration); err != nil {
		return domain.Activity{}, err
	}
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Activity), args.Error(1)
}

func (m *mockDayStore) RemoveActivity(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDayStore) UpdateActivityDurationWithin(ctx context.Context, id uuid.UUID, minutes int, check func(int, int) error) (domain.Activity, error) {
	current, ok := m.entry.Activity(id)
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if err := check(m.entry.TotalMinutes()-current.Duration, minutes); err != nil {
		return domain.Activity{}, err
	}
	args := m.Called(ctx, id, minutes)
	return args.Get(0).(domain.Activity), args.Error(1)
}

func (m *mockDayStore) UpdateActivityFacets(ctx context.Context, id uuid.UUID, facets domain.Facets, notes string) (domain.Activity, error) {
	args := m.Called(ctx, id, facets, notes)
	return args.Get(0).(domain.Activity), args.Error(1)
}

func (m *mockDayStore) AddTask(ctx context.Context, text string) (domain.Task, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *mockDayStore) ToggleTask(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *mockDayStore) RemoveTask(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDayStore) SetDiaryNote(ctx context.Context, note string) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockDayStore) SetEmotionalCheckIn(ctx context.Context, checkIn domain.EmotionalCheckIn) error {
	return m.Called(ctx, checkIn).Error(0)
}

func (m *mockDayStore) SetDayIntention(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func (m *mockDayStore) SetDayStory(ctx context.Context, story *domain.DayStory) error {
	return m.Called(ctx, story).Error(0)
}

func (m *mockDayStore) SetReflection(ctx context.Context, reflection domain.Reflection) error {
	return m.Called(ctx, reflection).Error(0)
}

func (m *mockDayStore) ResetEntry(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// withActivity seeds the entry the handlers read for capacity checks.
func (m *mockDayStore) withActivity(minutes int) domain.Activity {
	a, err := domain.NewActivity(domain.NewActivityInput{Icon: domain.IconWork, Duration: minutes}, testNow)
	if err != nil {
		panic(err)
	}
	m.entry.AddActivity(a)
	return a
}

type mockFlusher struct {
	mock.Mock
}

func (m *mockFlusher) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockResyncer struct {
	mock.Mock
}

func (m *mockResyncer) ResyncPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type staticStatus services.SyncState

func (s staticStatus) State() services.SyncState { return services.SyncState(s) }

type mockProfileUpdater struct {
	mock.Mock
}

func (m *mockProfileUpdater) Update(ctx context.Context, p domain.Profile) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Check(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
