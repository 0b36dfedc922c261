package domain

import (
	"fmt"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

// EntrySnapshot is the stored form of a DayEntry. It carries no wall-clock
// timestamps, so saving an unchanged entry twice yields identical bytes.
type EntrySnapshot struct {
	ID               uuid.UUID         `json:"id"`
	Date             LocalDate         `json:"date"`
	Revision         int64             `json:"revision"`
	Activities       []Activity        `json:"activities"`
	Tasks            []Task            `json:"tasks"`
	TotalMinutes     int               `json:"totalMinutes"`
	DiaryNote        string            `json:"diaryNote"`
	EmotionalCheckIn *EmotionalCheckIn `json:"emotionalCheckIn"`
	DayIntention     string            `json:"dayIntention"`
	DayStory         *DayStory         `json:"dayStory"`
	Reflection       Reflection        `json:"reflection"`
}

// Snapshot captures the entry's current state.
func (e *DayEntry) Snapshot() EntrySnapshot {
	return EntrySnapshot{
		ID:               e.ID(),
		Date:             e.date,
		Revision:         e.Revision(),
		Activities:       e.Activities(),
		Tasks:            e.Tasks(),
		TotalMinutes:     e.TotalMinutes(),
		DiaryNote:        e.diaryNote,
		EmotionalCheckIn: e.EmotionalCheckIn(),
		DayIntention:     e.intention,
		DayStory:         e.DayStory(),
		Reflection:       e.reflection.clone(),
	}
}

// RestoreDayEntry rebuilds an entry from a snapshot. The stored
// totalMinutes is ignored and recomputed from the activities.
func RestoreDayEntry(s EntrySnapshot) (*DayEntry, error) {
	if _, err := ParseLocalDate(string(s.Date)); err != nil {
		return nil, err
	}
	id := s.ID
	if id == uuid.Nil {
		id = shared.NewID()
	}

	e := &DayEntry{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(id, s.Revision),
		date:              s.Date,
		activities:        make([]Activity, 0, len(s.Activities)),
		tasks:             make([]Task, 0, len(s.Tasks)),
		diaryNote:         s.DiaryNote,
		intention:         s.DayIntention,
		reflection:        s.Reflection.clone(),
	}
	for _, a := range s.Activities {
		if err := a.Facets.Validate(); err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		e.activities = append(e.activities, a.clone())
	}
	e.tasks = append(e.tasks, s.Tasks...)
	if s.EmotionalCheckIn != nil {
		c := *s.EmotionalCheckIn
		e.checkIn = &c
	}
	if s.DayStory != nil {
		st := *s.DayStory
		e.story = &st
	}
	return e, nil
}
