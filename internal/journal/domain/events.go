package domain

import (
	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

// Routing keys for journal events.
const (
	RoutingActivityAdded   = "journal.activity.added"
	RoutingActivityRemoved = "journal.activity.removed"
	RoutingActivityUpdated = "journal.activity.updated"
	RoutingTaskAdded       = "journal.task.added"
	RoutingTaskToggled     = "journal.task.toggled"
	RoutingTaskRemoved     = "journal.task.removed"
	RoutingDiaryUpdated    = "journal.diary.updated"
	RoutingCheckInRecorded = "journal.checkin.recorded"
	RoutingEntryReset      = "journal.entry.reset"
)

// ActivityEvent is raised when an activity is added, removed or changed.
type ActivityEvent struct {
	shared.BaseEvent
	Date       LocalDate    `json:"date"`
	ActivityID uuid.UUID    `json:"activityId"`
	Icon       ActivityIcon `json:"icon"`
	Duration   int          `json:"duration"`
}

func newActivityEvent(entryID uuid.UUID, revision int64, routingKey string, date LocalDate, a Activity) ActivityEvent {
	return ActivityEvent{
		BaseEvent:  shared.NewBaseEvent(entryID, aggregateTypeDayEntry, revision, routingKey),
		Date:       date,
		ActivityID: a.ID,
		Icon:       a.Icon,
		Duration:   a.Duration,
	}
}

func NewActivityAddedEvent(entryID uuid.UUID, revision int64, date LocalDate, a Activity) ActivityEvent {
	return newActivityEvent(entryID, revision, RoutingActivityAdded, date, a)
}

func NewActivityRemovedEvent(entryID uuid.UUID, revision int64, date LocalDate, a Activity) ActivityEvent {
	return newActivityEvent(entryID, revision, RoutingActivityRemoved, date, a)
}

func NewActivityUpdatedEvent(entryID uuid.UUID, revision int64, date LocalDate, a Activity) ActivityEvent {
	return newActivityEvent(entryID, revision, RoutingActivityUpdated, date, a)
}

// TaskEvent is raised when a task is added, toggled or removed.
type TaskEvent struct {
	shared.BaseEvent
	Date      LocalDate `json:"date"`
	TaskID    uuid.UUID `json:"taskId"`
	Completed bool      `json:"completed"`
}

func newTaskEvent(entryID uuid.UUID, revision int64, routingKey string, date LocalDate, t Task) TaskEvent {
	return TaskEvent{
		BaseEvent: shared.NewBaseEvent(entryID, aggregateTypeDayEntry, revision, routingKey),
		Date:      date,
		TaskID:    t.ID,
		Completed: t.Completed,
	}
}

func NewTaskAddedEvent(entryID uuid.UUID, revision int64, date LocalDate, t Task) TaskEvent {
	return newTaskEvent(entryID, revision, RoutingTaskAdded, date, t)
}

func NewTaskToggledEvent(entryID uuid.UUID, revision int64, date LocalDate, t Task) TaskEvent {
	return newTaskEvent(entryID, revision, RoutingTaskToggled, date, t)
}

func NewTaskRemovedEvent(entryID uuid.UUID, revision int64, date LocalDate, t Task) TaskEvent {
	return newTaskEvent(entryID, revision, RoutingTaskRemoved, date, t)
}

// DiaryUpdatedEvent carries only the note length, never its text.
type DiaryUpdatedEvent struct {
	shared.BaseEvent
	Date   LocalDate `json:"date"`
	Length int       `json:"length"`
}

func NewDiaryUpdatedEvent(entryID uuid.UUID, revision int64, date LocalDate, length int) DiaryUpdatedEvent {
	return DiaryUpdatedEvent{
		BaseEvent: shared.NewBaseEvent(entryID, aggregateTypeDayEntry, revision, RoutingDiaryUpdated),
		Date:      date,
		Length:    length,
	}
}

// CheckInRecordedEvent is raised when the emotional check-in is saved.
type CheckInRecordedEvent struct {
	shared.BaseEvent
	Date    LocalDate `json:"date"`
	Feeling string    `json:"feeling"`
}

func NewCheckInRecordedEvent(entryID uuid.UUID, revision int64, date LocalDate, feeling string) CheckInRecordedEvent {
	return CheckInRecordedEvent{
		BaseEvent: shared.NewBaseEvent(entryID, aggregateTypeDayEntry, revision, RoutingCheckInRecorded),
		Date:      date,
		Feeling:   feeling,
	}
}

// EntryResetEvent is raised when a day-boundary rollover replaces the entry.
type EntryResetEvent struct {
	shared.BaseEvent
	PreviousDate LocalDate `json:"previousDate"`
	Date         LocalDate `json:"date"`
}

func NewEntryResetEvent(entryID uuid.UUID, revision int64, previous, date LocalDate) EntryResetEvent {
	return EntryResetEvent{
		BaseEvent:    shared.NewBaseEvent(entryID, aggregateTypeDayEntry, revision, RoutingEntryReset),
		PreviousDate: previous,
		Date:         date,
	}
}
