package domain

import (
	"slices"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

const aggregateTypeDayEntry = "DayEntry"

// DayEntry is everything logged for one calendar day. It changes only
// through the intent methods below. None of them perform I/O, and none
// enforce the daily minute capacity; callers check that up front.
type DayEntry struct {
	shared.BaseAggregateRoot
	date       LocalDate
	activities []Activity
	tasks      []Task
	diaryNote  string
	checkIn    *EmotionalCheckIn
	intention  string
	story      *DayStory
	reflection Reflection
}

// NewDayEntry creates an empty entry for date.
func NewDayEntry(date LocalDate) *DayEntry {
	return &DayEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		date:              date,
		activities:        []Activity{},
		tasks:             []Task{},
	}
}

func (e *DayEntry) Date() LocalDate        { return e.date }
func (e *DayEntry) DiaryNote() string      { return e.diaryNote }
func (e *DayEntry) DayIntention() string   { return e.intention }
func (e *DayEntry) Reflection() Reflection { return e.reflection.clone() }

// Activities returns a copy in logging order.
func (e *DayEntry) Activities() []Activity {
	out := make([]Activity, len(e.activities))
	for i, a := range e.activities {
		out[i] = a.clone()
	}
	return out
}

// Tasks returns a copy in creation order.
func (e *DayEntry) Tasks() []Task {
	return slices.Clone(e.tasks)
}

func (e *DayEntry) EmotionalCheckIn() *EmotionalCheckIn {
	if e.checkIn == nil {
		return nil
	}
	c := *e.checkIn
	return &c
}

func (e *DayEntry) DayStory() *DayStory {
	if e.story == nil {
		return nil
	}
	s := *e.story
	return &s
}

// TotalMinutes is the sum of all activity durations.
func (e *DayEntry) TotalMinutes() int {
	total := 0
	for _, a := range e.activities {
		total += a.Duration
	}
	return total
}

// IsEmpty reports whether nothing has been logged.
func (e *DayEntry) IsEmpty() bool {
	return len(e.activities) == 0 && len(e.tasks) == 0 && e.diaryNote == "" &&
		e.checkIn == nil && e.intention == "" && e.story == nil &&
		e.reflection.Highlights == "" && e.reflection.Mood == "" && e.reflection.DayRating == nil
}

// Activity looks up an activity by id.
func (e *DayEntry) Activity(id uuid.UUID) (Activity, bool) {
	i := e.activityIndex(id)
	if i < 0 {
		return Activity{}, false
	}
	return e.activities[i].clone(), true
}

func (e *DayEntry) activityIndex(id uuid.UUID) int {
	return slices.IndexFunc(e.activities, func(a Activity) bool { return a.ID == id })
}

func (e *DayEntry) taskIndex(id uuid.UUID) int {
	return slices.IndexFunc(e.tasks, func(t Task) bool { return t.ID == id })
}

// AddActivity appends an activity.
func (e *DayEntry) AddActivity(a Activity) {
	e.activities = append(e.activities, a.clone())
	e.Bump()
	e.AddDomainEvent(NewActivityAddedEvent(e.ID(), e.Revision(), e.date, a))
}

// RemoveActivity drops the activity with id. It reports whether one existed.
func (e *DayEntry) RemoveActivity(id uuid.UUID) bool {
	i := e.activityIndex(id)
	if i < 0 {
		return false
	}
	removed := e.activities[i]
	e.activities = slices.Delete(e.activities, i, i+1)
	e.Bump()
	e.AddDomainEvent(NewActivityRemovedEvent(e.ID(), e.Revision(), e.date, removed))
	return true
}

// UpdateActivityDuration replaces an activity's duration and returns the
// updated activity.
func (e *DayEntry) UpdateActivityDuration(id uuid.UUID, minutes int) (Activity, error) {
	if err := ValidateDuration(minutes); err != nil {
		return Activity{}, err
	}
	i := e.activityIndex(id)
	if i < 0 {
		return Activity{}, ErrActivityNotFound
	}
	e.activities[i].Duration = minutes
	e.Bump()
	e.AddDomainEvent(NewActivityUpdatedEvent(e.ID(), e.Revision(), e.date, e.activities[i]))
	return e.activities[i].clone(), nil
}

// UpdateActivityFacets replaces an activity's facets and notes.
func (e *DayEntry) UpdateActivityFacets(id uuid.UUID, facets Facets, notes string) (Activity, error) {
	if err := facets.Validate(); err != nil {
		return Activity{}, err
	}
	if len([]rune(notes)) > MaxActivityNotes {
		return Activity{}, ErrNotesTooLong
	}
	i := e.activityIndex(id)
	if i < 0 {
		return Activity{}, ErrActivityNotFound
	}
	e.activities[i].Facets = facets.Clone()
	e.activities[i].Notes = notes
	e.Bump()
	e.AddDomainEvent(NewActivityUpdatedEvent(e.ID(), e.Revision(), e.date, e.activities[i]))
	return e.activities[i].clone(), nil
}

// AddTask appends a task.
func (e *DayEntry) AddTask(t Task) {
	e.tasks = append(e.tasks, t)
	e.Bump()
	e.AddDomainEvent(NewTaskAddedEvent(e.ID(), e.Revision(), e.date, t))
}

// ToggleTask flips completion and returns the new state of the task.
func (e *DayEntry) ToggleTask(id uuid.UUID) (Task, error) {
	i := e.taskIndex(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	e.tasks[i].Completed = !e.tasks[i].Completed
	e.Bump()
	e.AddDomainEvent(NewTaskToggledEvent(e.ID(), e.Revision(), e.date, e.tasks[i]))
	return e.tasks[i], nil
}

// RemoveTask drops the task with id. It reports whether one existed.
func (e *DayEntry) RemoveTask(id uuid.UUID) bool {
	i := e.taskIndex(id)
	if i < 0 {
		return false
	}
	removed := e.tasks[i]
	e.tasks = slices.Delete(e.tasks, i, i+1)
	e.Bump()
	e.AddDomainEvent(NewTaskRemovedEvent(e.ID(), e.Revision(), e.date, removed))
	return true
}

// SetDiaryNote replaces the note wholesale.
func (e *DayEntry) SetDiaryNote(note string) {
	if note == e.diaryNote {
		return
	}
	e.diaryNote = note
	e.Bump()
	e.AddDomainEvent(NewDiaryUpdatedEvent(e.ID(), e.Revision(), e.date, len([]rune(note))))
}

// SetEmotionalCheckIn replaces the check-in.
func (e *DayEntry) SetEmotionalCheckIn(c EmotionalCheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.checkIn = &c
	e.Bump()
	e.AddDomainEvent(NewCheckInRecordedEvent(e.ID(), e.Revision(), e.date, c.Feeling))
	return nil
}

// SetDayIntention replaces the intention for the day.
func (e *DayEntry) SetDayIntention(text string) {
	e.intention = text
	e.Bump()
}

// SetDayStory replaces the story. A nil story clears it.
func (e *DayEntry) SetDayStory(s *DayStory) error {
	if s == nil {
		e.story = nil
		e.Bump()
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}
	story := *s
	e.story = &story
	e.Bump()
	return nil
}

// SetReflection replaces the reflection.
func (e *DayEntry) SetReflection(r Reflection) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e.reflection = r.clone()
	e.Bump()
	return nil
}

// MarkReset records that this entry replaced the one for previous.
func (e *DayEntry) MarkReset(previous LocalDate) {
	e.AddDomainEvent(NewEntryResetEvent(e.ID(), e.Revision(), previous, e.date))
}

// Clone returns a deep copy without pending events.
func (e *DayEntry) Clone() *DayEntry {
	return &DayEntry{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(e.ID(), e.Revision()),
		date:              e.date,
		activities:        e.Activities(),
		tasks:             e.Tasks(),
		diaryNote:         e.diaryNote,
		checkIn:           e.EmotionalCheckIn(),
		intention:         e.intention,
		story:             e.DayStory(),
		reflection:        e.reflection.clone(),
	}
}
