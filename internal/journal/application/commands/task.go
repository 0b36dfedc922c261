package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/sanitize"
)

// TaskHandler handles the task intents.
type TaskHandler struct {
	store DayStore
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store DayStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// Add creates an open task.
func (h *TaskHandler) Add(ctx context.Context, text string) (domain.Task, error) {
	cleaned, err := sanitize.RequiredText("task", text, domain.MaxTaskText)
	if err != nil {
		return domain.Task{}, err
	}
	return h.store.AddTask(ctx, cleaned)
}

func (h *TaskHandler) Toggle(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	return h.store.ToggleTask(ctx, id)
}

func (h *TaskHandler) Remove(ctx context.Context, id uuid.UUID) error {
	return h.store.RemoveTask(ctx, id)
}
