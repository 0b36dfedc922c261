package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

const MaxTaskText = 100

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTask    = errors.New("task text cannot be empty")
	ErrTaskTooLong  = errors.New("task text exceeds 100 characters")
)

// Task is a to-do item owned by a DayEntry.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates an open task.
func NewTask(text string, createdAt time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyTask
	}
	if utf8.RuneCountInString(text) > MaxTaskText {
		return Task{}, ErrTaskTooLong
	}
	return Task{
		ID:        shared.NewID(),
		Text:      text,
		CreatedAt: createdAt.UTC(),
	}, nil
}
