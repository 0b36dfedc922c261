package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFeelingRequired         = errors.New("check-in feeling is required")
	ErrMostSignificantRequired = errors.New("day story requires the most significant moment")
	ErrInvalidMood             = errors.New("invalid mood")
	ErrInvalidDayRating        = errors.New("day rating must be between 1 and 5")
)

// EmotionalCheckIn is the structured morning check-in.
type EmotionalCheckIn struct {
	Feeling         string `json:"feeling"`
	MentalNoise     string `json:"mentalNoise,omitempty"`
	NeedsToday      string `json:"needsToday,omitempty"`
	CurrentGoal     string `json:"currentGoal,omitempty"`
	FutureVision    string `json:"futureVision,omitempty"`
	MainObstacle    string `json:"mainObstacle,omitempty"`
	ShareThoughts   string `json:"shareThoughts,omitempty"`
	ActionIntention string `json:"actionIntention,omitempty"`
}

// Validate requires a feeling.
func (c EmotionalCheckIn) Validate() error {
	if strings.TrimSpace(c.Feeling) == "" {
		return ErrFeelingRequired
	}
	return nil
}

// DayStory is the evening narrative of the day.
type DayStory struct {
	HowStarted      string `json:"howStarted,omitempty"`
	MostSignificant string `json:"mostSignificant"`
	HowClosing      string `json:"howClosing,omitempty"`
}

// Validate requires the most significant moment.
func (s DayStory) Validate() error {
	if strings.TrimSpace(s.MostSignificant) == "" {
		return ErrMostSignificantRequired
	}
	return nil
}

// Mood is an emoji code.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodExcited Mood = "excited"
	MoodNeutral Mood = "neutral"
	MoodTired   Mood = "tired"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodAngry   Mood = "angry"
)

// Moods returns the known mood codes.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodCalm, MoodExcited, MoodNeutral, MoodTired, MoodSad, MoodAnxious, MoodAngry}
}

// IsValid reports whether m is known. The empty mood is valid.
func (m Mood) IsValid() bool {
	if m == "" {
		return true
	}
	for _, known := range Moods() {
		if m == known {
			return true
		}
	}
	return false
}

// Emoji renders the mood for terminals.
func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodCalm:
		return "😌"
	case MoodExcited:
		return "🤩"
	case MoodNeutral:
		return "😐"
	case MoodTired:
		return "😴"
	case MoodSad:
		return "😢"
	case MoodAnxious:
		return "😰"
	case MoodAngry:
		return "😠"
	default:
		return ""
	}
}

// Reflection is the end-of-day summary.
type Reflection struct {
	Highlights string `json:"highlights"`
	Mood       Mood   `json:"mood"`
	DayRating  *int   `json:"dayRating,omitempty"`
}

// Validate checks the mood code and the optional rating.
func (r Reflection) Validate() error {
	if !r.Mood.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMood, r.Mood)
	}
	if r.DayRating != nil && (*r.DayRating < MinRating || *r.DayRating > MaxRating) {
		return fmt.Errorf("%w: got %d", ErrInvalidDayRating, *r.DayRating)
	}
	return nil
}

func (r Reflection) clone() Reflection {
	if r.DayRating != nil {
		rating := *r.DayRating
		r.DayRating = &rating
	}
	return r
}
