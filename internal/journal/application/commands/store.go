// Package commands turns raw user input into DayStore intents. Every
// handler sanitizes first; nothing reaches the entry unvalidated.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// DayStore is the set of intents the handlers drive.
type DayStore interface {
	AddActivityWithin(ctx context.Context, in domain.NewActivityInput, check func(loggedMinutes, addMinutes int) error) (domain.Activity, error)
	RemoveActivity(ctx context.Context, id uuid.UUID) error
	UpdateActivityDurationWithin(ctx context.Context, id uuid.UUID, minutes int, check func(loggedMinutes, addMinutes int) error) (domain.Activity, error)
	UpdateActivityFacets(ctx context.Context, id uuid.UUID, facets domain.Facets, notes string) (domain.Activity, error)
	AddTask(ctx context.Context, text string) (domain.Task, error)
	ToggleTask(ctx context.Context, id uuid.UUID) (domain.Task, error)
	RemoveTask(ctx context.Context, id uuid.UUID) error
	SetDiaryNote(ctx context.Context, note string) error
	SetEmotionalCheckIn(ctx context.Context, checkIn domain.EmotionalCheckIn) error
	SetDayIntention(ctx context.Context, text string) error
	SetDayStory(ctx context.Context, story *domain.DayStory) error
	SetReflection(ctx context.Context, reflection domain.Reflection) error
	ResetEntry(ctx context.Context) error
}
