package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/sanitize"
)

// AddActivityCommand contains the raw input for a new activity.
type AddActivityCommand struct {
	Icon     string
	Label    string
	Duration int
	Color    string
	Facets   map[string]string
	Notes    string
}

// AddActivityHandler handles AddActivityCommand.
type AddActivityHandler struct {
	store DayStore
}

// NewAddActivityHandler creates a new AddActivityHandler.
func NewAddActivityHandler(store DayStore) *AddActivityHandler {
	return &AddActivityHandler{store: store}
}

// Handle validates the input and adds the activity if the day still has
// room. The store checks the room under its lock.
func (h *AddActivityHandler) Handle(ctx context.Context, cmd AddActivityCommand) (domain.Activity, error) {
	icon, err := sanitize.Icon(cmd.Icon)
	if err != nil {
		return domain.Activity{}, err
	}
	if err := sanitize.Duration(cmd.Duration); err != nil {
		return domain.Activity{}, err
	}
	label, err := sanitize.Text("label", cmd.Label, domain.MaxActivityLabel)
	if err != nil {
		return domain.Activity{}, err
	}
	color, err := sanitize.Text("color", cmd.Color, 32)
	if err != nil {
		return domain.Activity{}, err
	}
	facets, err := sanitize.Facets(cmd.Facets)
	if err != nil {
		return domain.Activity{}, err
	}
	notes, err := sanitize.Notes(cmd.Notes)
	if err != nil {
		return domain.Activity{}, err
	}

	return h.store.AddActivityWithin(ctx, domain.NewActivityInput{
		Icon:     icon,
		Label:    label,
		Duration: cmd.Duration,
		Color:    color,
		Facets:   facets,
		Notes:    notes,
	}, sanitize.CheckDayCapacity)
}

// RemoveActivityHandler removes an activity. Its history stays.
type RemoveActivityHandler struct {
	store DayStore
}

func NewRemoveActivityHandler(store DayStore) *RemoveActivityHandler {
	return &RemoveActivityHandler{store: store}
}

func (h *RemoveActivityHandler) Handle(ctx context.Context, id uuid.UUID) error {
	return h.store.RemoveActivity(ctx, id)
}

// UpdateActivityDurationCommand changes how long an activity took.
type UpdateActivityDurationCommand struct {
	ActivityID uuid.UUID
	Duration   int
}

// UpdateActivityDurationHandler handles UpdateActivityDurationCommand.
type UpdateActivityDurationHandler struct {
	store DayStore
}

func NewUpdateActivityDurationHandler(store DayStore) *UpdateActivityDurationHandler {
	return &UpdateActivityDurationHandler{store: store}
}

// Handle updates the duration if it fits next to the minutes of the other
// activities.
func (h *UpdateActivityDurationHandler) Handle(ctx context.Context, cmd UpdateActivityDurationCommand) (domain.Activity, error) {
	if err := sanitize.Duration(cmd.Duration); err != nil {
		return domain.Activity{}, err
	}

	return h.store.UpdateActivityDurationWithin(ctx, cmd.ActivityID, cmd.Duration, sanitize.CheckDayCapacity)
}

// UpdateActivityFacetsCommand replaces an activity's facets and notes.
type UpdateActivityFacetsCommand struct {
	ActivityID uuid.UUID
	Facets     map[string]string
	Notes      string
}

// UpdateActivityFacetsHandler handles UpdateActivityFacetsCommand.
type UpdateActivityFacetsHandler struct {
	store DayStore
}

func NewUpdateActivityFacetsHandler(store DayStore) *UpdateActivityFacetsHandler {
	return &UpdateActivityFacetsHandler{store: store}
}

func (h *UpdateActivityFacetsHandler) Handle(ctx context.Context, cmd UpdateActivityFacetsCommand) (domain.Activity, error) {
	facets, err := sanitize.Facets(cmd.Facets)
	if err != nil {
		return domain.Activity{}, err
	}
	notes, err := sanitize.Notes(cmd.Notes)
	if err != nil {
		return domain.Activity{}, err
	}
	return h.store.UpdateActivityFacets(ctx, cmd.ActivityID, facets, notes)
}
