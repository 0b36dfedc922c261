package queries

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// memEntries is an in-memory domain.EntryRepository.
type memEntries struct {
	byDate map[domain.LocalDate]domain.EntrySnapshot
	err    error
}

func newMemEntries(snaps ...domain.EntrySnapshot) *memEntries {
	m := &memEntries{byDate: make(map[domain.LocalDate]domain.EntrySnapshot)}
	for _, s := range snaps {
		m.byDate[s.Date] = s
	}
	return m
}

func (m *memEntries) Save(_ context.Context, date domain.LocalDate, snap domain.EntrySnapshot) error {
	m.byDate[date] = snap
	return nil
}

func (m *memEntries) FindByDate(_ context.Context, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.byDate[date]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &s, nil
}

func (m *memEntries) List(ctx context.Context) ([]domain.EntrySnapshot, error) {
	return m.ListRange(ctx, "0000-01-01", "9999-12-31")
}

func (m *memEntries) ListRange(_ context.Context, from, to domain.LocalDate) ([]domain.EntrySnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.EntrySnapshot
	for d, s := range m.byDate {
		if d.Within(from, to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

var errRemoteDown = errors.New("remote down")

// stubMirror serves fixed entries.
type stubMirror struct {
	enabled bool
	fail    bool
	entries []domain.EntrySnapshot
}

func (m *stubMirror) Enabled() bool { return m.enabled }

func (m *stubMirror) SaveEntry(context.Context, string, domain.EntrySnapshot) error { return nil }

func (m *stubMirror) GetEntry(_ context.Context, _ string, date domain.LocalDate) (*domain.EntrySnapshot, error) {
	if m.fail {
		return nil, errRemoteDown
	}
	for _, s := range m.entries {
		if s.Date == date {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *stubMirror) ListEntries(context.Context, string) ([]domain.EntrySnapshot, error) {
	if m.fail {
		return nil, errRemoteDown
	}
	return m.entries, nil
}

func (m *stubMirror) AppendHistory(context.Context, string, domain.HistoryEntry) error { return nil }

func (m *stubMirror) ListHistory(context.Context, string, domain.HistoryKind) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (m *stubMirror) SaveProfile(context.Context, domain.Profile) error { return nil }

type staticProfile domain.Profile

func (p staticProfile) Profile() domain.Profile { return domain.Profile(p) }

// entryWith builds a snapshot for date with one activity per duration.
func entryWith(date domain.LocalDate, durations ...int) domain.EntrySnapshot {
	e := domain.NewDayEntry(date)
	for _, d := range durations {
		a, err := domain.NewActivity(domain.NewActivityInput{Icon: domain.IconWork, Duration: d}, testNow)
		if err != nil {
			panic(err)
		}
		e.AddActivity(a)
	}
	return e.Snapshot()
}
