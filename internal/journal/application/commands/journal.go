package commands

import (
	"context"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/sanitize"
)

// RecordCheckInCommand contains the morning check-in answers.
type RecordCheckInCommand struct {
	Feeling         string
	MentalNoise     string
	NeedsToday      string
	CurrentGoal     string
	FutureVision    string
	MainObstacle    string
	ShareThoughts   string
	ActionIntention string
}

// SetDayStoryCommand contains the evening narrative.
type SetDayStoryCommand struct {
	HowStarted      string
	MostSignificant string
	HowClosing      string
}

// SetReflectionCommand contains the end-of-day reflection. Rating 0 means
// no rating.
type SetReflectionCommand struct {
	Highlights string
	Mood       string
	Rating     int
}

// JournalHandler handles the free-text intents of the day.
type JournalHandler struct {
	store DayStore
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(store DayStore) *JournalHandler {
	return &JournalHandler{store: store}
}

func (h *JournalHandler) SetDiaryNote(ctx context.Context, note string) error {
	cleaned, err := sanitize.DiaryNote(note)
	if err != nil {
		return err
	}
	return h.store.SetDiaryNote(ctx, cleaned)
}

func (h *JournalHandler) SetDayIntention(ctx context.Context, text string) error {
	cleaned, err := sanitize.Text("intention", text, sanitize.MaxFreeText)
	if err != nil {
		return err
	}
	return h.store.SetDayIntention(ctx, cleaned)
}

// RecordCheckIn requires a feeling; the other answers are optional.
func (h *JournalHandler) RecordCheckIn(ctx context.Context, cmd RecordCheckInCommand) error {
	var (
		checkIn domain.EmotionalCheckIn
		err     error
	)
	if checkIn.Feeling, err = sanitize.RequiredText("feeling", cmd.Feeling, sanitize.MaxFreeText); err != nil {
		return err
	}
	fields := []struct {
		name string
		raw  string
		dst  *string
	}{
		{"mentalNoise", cmd.MentalNoise, &checkIn.MentalNoise},
		{"needsToday", cmd.NeedsToday, &checkIn.NeedsToday},
		{"currentGoal", cmd.CurrentGoal, &checkIn.CurrentGoal},
		{"futureVision", cmd.FutureVision, &checkIn.FutureVision},
		{"mainObstacle", cmd.MainObstacle, &checkIn.MainObstacle},
		{"shareThoughts", cmd.ShareThoughts, &checkIn.ShareThoughts},
		{"actionIntention", cmd.ActionIntention, &checkIn.ActionIntention},
	}
	for _, f := range fields {
		if *f.dst, err = sanitize.Text(f.name, f.raw, sanitize.MaxFreeText); err != nil {
			return err
		}
	}
	return h.store.SetEmotionalCheckIn(ctx, checkIn)
}

// SetDayStory stores the narrative. An empty command clears it.
func (h *JournalHandler) SetDayStory(ctx context.Context, cmd SetDayStoryCommand) error {
	if cmd == (SetDayStoryCommand{}) {
		return h.store.SetDayStory(ctx, nil)
	}
	var (
		story domain.DayStory
		err   error
	)
	if story.MostSignificant, err = sanitize.RequiredText("mostSignificant", cmd.MostSignificant, sanitize.MaxFreeText); err != nil {
		return err
	}
	if story.HowStarted, err = sanitize.Text("howStarted", cmd.HowStarted, sanitize.MaxFreeText); err != nil {
		return err
	}
	if story.HowClosing, err = sanitize.Text("howClosing", cmd.HowClosing, sanitize.MaxFreeText); err != nil {
		return err
	}
	return h.store.SetDayStory(ctx, &story)
}

func (h *JournalHandler) SetReflection(ctx context.Context, cmd SetReflectionCommand) error {
	highlights, err := sanitize.Text("highlights", cmd.Highlights, sanitize.MaxFreeText)
	if err != nil {
		return err
	}
	mood, err := sanitize.Mood(cmd.Mood)
	if err != nil {
		return err
	}
	reflection := domain.Reflection{Highlights: highlights, Mood: mood}
	if cmd.Rating != 0 {
		if err := sanitize.Rating("dayRating", cmd.Rating); err != nil {
			return err
		}
		rating := cmd.Rating
		reflection.DayRating = &rating
	}
	return h.store.SetReflection(ctx, reflection)
}
