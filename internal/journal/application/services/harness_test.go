package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/infrastructure/persistence"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/daylog/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/daylog/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

const testEmail = "ada@example.com"

// harness wires the services on a temp SQLite file.
type harness struct {
	clock    *domain.FixedClock
	conn     database.Connection
	entries  *persistence.SQLiteEntryRepository
	historyR *persistence.SQLiteHistoryRepository
	flags    *persistence.SQLiteFlagRepository
	uow      *database.UnitOfWork
	mirror   domain.RemoteMirror
	metrics  *observability.InMemoryMetrics
	bus      *eventbus.InProcessEventBus

	profiles *ProfileService
	status   *SyncStatus
	history  *HistoryRecorder
	store    *DayStore
	saver    *Autosaver
	monitor  *DayBoundaryMonitor
}

func openTestDB(t *testing.T, path string) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.RunSQLite(ctx, conn))
	return conn
}

func newHarness(t *testing.T, mirror domain.RemoteMirror) *harness {
	t.Helper()
	return newHarnessAt(t, filepath.Join(t.TempDir(), "daylog.db"), mirror, domain.ClockAt("2024-01-01"))
}

func newHarnessAt(t *testing.T, path string, mirror domain.RemoteMirror, clock *domain.FixedClock) *harness {
	t.Helper()
	if mirror == nil {
		mirror = &fakeMirror{disabled: true}
	}
	conn := openTestDB(t, path)
	h := &harness{
		clock:    clock,
		conn:     conn,
		entries:  persistence.NewSQLiteEntryRepository(conn),
		historyR: persistence.NewSQLiteHistoryRepository(conn),
		flags:    persistence.NewSQLiteFlagRepository(conn),
		uow:      database.NewUnitOfWork(conn),
		mirror:   mirror,
		metrics:  observability.NewInMemoryMetrics(),
		bus:      eventbus.NewInProcessEventBus(nil),
	}
	h.bus.RegisterConsumer(eventbus.NewMetricsConsumer(h.metrics, "#"))

	h.profiles = NewProfileService(h.flags, h.uow, mirror, time.Second, nil)
	h.status = NewSyncStatus(h.flags)
	h.history = NewHistoryRecorder(h.historyR, mirror, h.profiles, clock, time.Second, nil, h.metrics)
	h.store = NewDayStore(clock, h.flags, h.uow, h.history, Delays{}, nil)
	h.saver = NewAutosaver(AutosaverDeps{
		Source:    h.store,
		Entries:   h.entries,
		Flags:     h.flags,
		UoW:       h.uow,
		Mirror:    mirror,
		Profile:   h.profiles,
		Publisher: h.bus,
		Status:    h.status,
		Clock:     clock,
		Metrics:   h.metrics,
	})
	h.store.SetAutosaver(h.saver)
	h.monitor = NewDayBoundaryMonitor(h.flags, h.store, clock, nil, h.metrics)
	t.Cleanup(func() {
		_ = h.saver.Close(context.Background())
		h.history.Wait()
	})
	return h
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	_, err := h.profiles.Update(context.Background(), domain.Profile{Name: "Ada", Email: testEmail})
	require.NoError(t, err)
}

func (h *harness) flag(t *testing.T, f domain.Flag) string {
	t.Helper()
	v, err := h.flags.Get(context.Background(), f)
	require.NoError(t, err)
	return v
}

func activityInput(icon domain.ActivityIcon, minutes int) domain.NewActivityInput {
	return domain.NewActivityInput{Icon: icon, Duration: minutes}
}

var errRemoteDown = errors.New("remote down")

// fakeMirror records calls and can be switched to fail.
type fakeMirror struct {
	mu       sync.Mutex
	disabled bool
	fail     bool

	saved    []domain.EntrySnapshot
	stored   map[domain.LocalDate]domain.EntrySnapshot
	history  []domain.HistoryEntry
	profiles []domain.Profile
}

func (m *fakeMirror) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *fakeMirror) Enabled() bool { return !m.disabled }

func (m *fakeMirror) SaveEntry(_ context.Context, _ string, snap domain.EntrySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errRemoteDown
	}
	m.saved = append(m.saved, snap)
	if m.stored == nil {
		m.stored = make(map[domain.LocalDate]domain.EntrySnapshot)
	}
	m.stored[snap.Date] = snap
	return nil
}

func (m *fakeMirror) GetEntry(_ context.Context, _ string, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errRemoteDown
	}
	snap, ok := m.stored[date]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *fakeMirror) ListEntries(context.Context, string) ([]domain.EntrySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errRemoteDown
	}
	var out []domain.EntrySnapshot
	for _, s := range m.stored {
		out = append(out, s)
	}
	return out, nil
}

func (m *fakeMirror) AppendHistory(_ context.Context, _ string, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errRemoteDown
	}
	m.history = append(m.history, entry)
	return nil
}

func (m *fakeMirror) ListHistory(_ context.Context, _ string, kind domain.HistoryKind) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errRemoteDown
	}
	var out []domain.HistoryEntry
	for _, e := range m.history {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *fakeMirror) SaveProfile(_ context.Context, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errRemoteDown
	}
	m.profiles = append(m.profiles, p)
	return nil
}

func (m *fakeMirror) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *fakeMirror) historyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// recordingSaver captures how the store asks for saves.
type recordingSaver struct {
	mu        sync.Mutex
	saves     int
	scheduled []time.Duration
}

func (r *recordingSaver) Save(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	return nil
}

func (r *recordingSaver) Schedule(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, delay)
}
