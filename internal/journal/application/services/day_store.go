package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/shared/application"
	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Default debounce delays.
const (
	DefaultAutosaveDelay      = 300 * time.Millisecond
	DefaultDiaryAutosaveDelay = 1500 * time.Millisecond
)

// Delays are the autosave debounce delays. A zero delay saves before the
// intent returns.
type Delays struct {
	Default time.Duration
	Diary   time.Duration
}

// DefaultDelays returns the interactive debounce delays.
func DefaultDelays() Delays {
	return Delays{Default: DefaultAutosaveDelay, Diary: DefaultDiaryAutosaveDelay}
}

// saveScheduler is the part of Autosaver the store drives.
type saveScheduler interface {
	Save(ctx context.Context) error
	Schedule(delay time.Duration)
}

// DayStore owns the current DayEntry. Every user intent is a method; a
// method that changes the entry's revision triggers an autosave.
type DayStore struct {
	mu        sync.Mutex
	entry     *domain.DayEntry
	checkedIn bool

	clock   domain.Clock
	flags   domain.FlagRepository
	uow     application.UnitOfWork
	history *HistoryRecorder
	saver   saveScheduler
	delays  Delays
	logger  *slog.Logger
}

// NewDayStore creates a store holding an empty entry for today. Call
// SetAutosaver before issuing intents that should persist.
func NewDayStore(
	clock domain.Clock,
	flags domain.FlagRepository,
	uow application.UnitOfWork,
	history *HistoryRecorder,
	delays Delays,
	logger *slog.Logger,
) *DayStore {
	return &DayStore{
		entry:   domain.NewDayEntry(clock.Today()),
		clock:   clock,
		flags:   flags,
		uow:     uow,
		history: history,
		delays:  delays,
		logger:  observability.OrDefault(logger).With("component", "day_store"),
	}
}

// SetAutosaver wires the saver that persists the entry after each intent.
func (s *DayStore) SetAutosaver(saver saveScheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saver = saver
}

// Current returns a deep copy of the entry.
func (s *DayStore) Current() *domain.DayEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry.Clone()
}

// Date returns the date of the entry in memory.
func (s *DayStore) Date() domain.LocalDate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry.Date()
}

// HasCompletedCheckIn reports whether today's check-in was recorded.
func (s *DayStore) HasCompletedCheckIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkedIn
}

// Snapshot captures the entry under the lock.
func (s *DayStore) Snapshot() domain.EntrySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry.Snapshot()
}

// DrainEvents returns and clears the entry's pending domain events.
func (s *DayStore) DrainEvents() []shared.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.entry.DomainEvents()
	s.entry.ClearDomainEvents()
	return events
}

// Replace installs entry as the current one.
func (s *DayStore) Replace(entry *domain.DayEntry, checkedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = entry
	s.checkedIn = checkedIn
}

// mutate applies fn under the lock and reports the entry date and whether
// the revision moved.
func (s *DayStore) mutate(fn func(e *domain.DayEntry) error) (domain.LocalDate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.entry.Revision()
	if err := fn(s.entry); err != nil {
		return "", false, err
	}
	return s.entry.Date(), s.entry.Revision() != before, nil
}

func (s *DayStore) persist(ctx context.Context, changed bool, delay time.Duration) error {
	s.mu.Lock()
	saver := s.saver
	s.mu.Unlock()
	if !changed || saver == nil {
		return nil
	}
	if delay <= 0 {
		return saver.Save(ctx)
	}
	saver.Schedule(delay)
	return nil
}

// CapacityCheck vets minutes about to be logged against the minutes the
// other activities of the day already hold.
type CapacityCheck func(loggedMinutes, addMinutes int) error

// AddActivity appends a new activity and journals it. It does not check
// the day's capacity; AddActivityWithin does.
func (s *DayStore) AddActivity(ctx context.Context, in domain.NewActivityInput) (domain.Activity, error) {
	return s.addActivity(ctx, in, nil)
}

// AddActivityWithin runs check and appends the activity under the same
// lock, so two concurrent adds cannot both pass against a stale total.
func (s *DayStore) AddActivityWithin(ctx context.Context, in domain.NewActivityInput, check func(loggedMinutes, addMinutes int) error) (domain.Activity, error) {
	return s.addActivity(ctx, in, check)
}

func (s *DayStore) addActivity(ctx context.Context, in domain.NewActivityInput, check CapacityCheck) (domain.Activity, error) {
	var activity domain.Activity
	date, changed, err := s.mutate(func(e *domain.DayEntry) error {
		a, err := domain.NewActivity(in, s.clock.Now())
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(e.TotalMinutes(), a.Duration); err != nil {
				return err
			}
		}
		e.AddActivity(a)
		activity = a
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}

	_, logErr := s.history.LogActivity(ctx, activity, date)
	_, timeErr := s.history.LogTime(ctx, activity, date)
	saveErr := s.persist(ctx, changed, s.delays.Default)
	return activity, errors.Join(logErr, timeErr, saveErr)
}

// RemoveActivity deletes an activity. Its history stays.
func (s *DayStore) RemoveActivity(ctx context.Context, id uuid.UUID) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		if !e.RemoveActivity(id) {
			return domain.ErrActivityNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Default)
}

// UpdateActivityDuration changes the duration and journals a time entry.
func (s *DayStore) UpdateActivityDuration(ctx context.Context, id uuid.UUID, minutes int) (domain.Activity, error) {
	return s.updateActivityDuration(ctx, id, minutes, nil)
}

// UpdateActivityDurationWithin runs check against the minutes of the other
// activities and applies the new duration under the same lock.
func (s *DayStore) UpdateActivityDurationWithin(ctx context.Context, id uuid.UUID, minutes int, check func(loggedMinutes, addMinutes int) error) (domain.Activity, error) {
	return s.updateActivityDuration(ctx, id, minutes, check)
}

func (s *DayStore) updateActivityDuration(ctx context.Context, id uuid.UUID, minutes int, check CapacityCheck) (domain.Activity, error) {
	var updated domain.Activity
	date, changed, err := s.mutate(func(e *domain.DayEntry) error {
		if check != nil {
			current, ok := e.Activity(id)
			if !ok {
				return domain.ErrActivityNotFound
			}
			if err := check(e.TotalMinutes()-current.Duration, minutes); err != nil {
				return err
			}
		}
		a, err := e.UpdateActivityDuration(id, minutes)
		updated = a
		return err
	})
	if err != nil {
		return domain.Activity{}, err
	}

	_, logErr := s.history.LogTime(ctx, updated, date)
	saveErr := s.persist(ctx, changed, s.delays.Default)
	return updated, errors.Join(logErr, saveErr)
}

// UpdateActivityFacets replaces facets and notes and journals an activity
// entry.
func (s *DayStore) UpdateActivityFacets(ctx context.Context, id uuid.UUID, facets domain.Facets, notes string) (domain.Activity, error) {
	var updated domain.Activity
	date, changed, err := s.mutate(func(e *domain.DayEntry) error {
		a, err := e.UpdateActivityFacets(id, facets, notes)
		updated = a
		return err
	})
	if err != nil {
		return domain.Activity{}, err
	}

	_, logErr := s.history.LogActivity(ctx, updated, date)
	saveErr := s.persist(ctx, changed, s.delays.Default)
	return updated, errors.Join(logErr, saveErr)
}

// AddTask appends an open task.
func (s *DayStore) AddTask(ctx context.Context, text string) (domain.Task, error) {
	var task domain.Task
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		t, err := domain.NewTask(text, s.clock.Now())
		if err != nil {
			return err
		}
		e.AddTask(t)
		task = t
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, s.persist(ctx, changed, s.delays.Default)
}

func (s *DayStore) ToggleTask(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	var task domain.Task
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		t, err := e.ToggleTask(id)
		task = t
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, s.persist(ctx, changed, s.delays.Default)
}

func (s *DayStore) RemoveTask(ctx context.Context, id uuid.UUID) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		if !e.RemoveTask(id) {
			return domain.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Default)
}

// SetDiaryNote replaces the note and saves with the longer diary delay.
func (s *DayStore) SetDiaryNote(ctx context.Context, note string) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		e.SetDiaryNote(note)
		return nil
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Diary)
}

// SetEmotionalCheckIn records the check-in and marks it done for today.
func (s *DayStore) SetEmotionalCheckIn(ctx context.Context, checkIn domain.EmotionalCheckIn) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		return e.SetEmotionalCheckIn(checkIn)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.checkedIn = true
	s.mu.Unlock()

	if err := s.flags.Set(ctx, domain.FlagLastCheckinDate, s.clock.Today().String()); err != nil {
		return fmt.Errorf("record check-in date: %w", err)
	}
	return s.persist(ctx, changed, s.delays.Default)
}

func (s *DayStore) SetDayIntention(ctx context.Context, text string) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		e.SetDayIntention(text)
		return nil
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Default)
}

// SetDayStory replaces the story; nil clears it.
func (s *DayStore) SetDayStory(ctx context.Context, story *domain.DayStory) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		return e.SetDayStory(story)
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Default)
}

func (s *DayStore) SetReflection(ctx context.Context, reflection domain.Reflection) error {
	_, changed, err := s.mutate(func(e *domain.DayEntry) error {
		return e.SetReflection(reflection)
	})
	if err != nil {
		return err
	}
	return s.persist(ctx, changed, s.delays.Default)
}

// ResetEntry swaps in an empty entry for today and moves the day markers.
// It does not save the new entry.
func (s *DayStore) ResetEntry(ctx context.Context) error {
	today := s.clock.Today()

	s.mu.Lock()
	previous := s.entry.Date()
	fresh := domain.NewDayEntry(today)
	fresh.MarkReset(previous)
	s.entry = fresh
	s.checkedIn = false
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "entry reset", "previous", previous, "today", today)

	return application.WithUnitOfWork(ctx, s.uow, func(ctx context.Context) error {
		if err := s.flags.Set(ctx, domain.FlagLastActiveDate, today.String()); err != nil {
			return fmt.Errorf("stamp last active date: %w", err)
		}
		if err := s.flags.Delete(ctx, domain.FlagLastCheckinDate); err != nil {
			return fmt.Errorf("clear check-in date: %w", err)
		}
		return nil
	})
}
