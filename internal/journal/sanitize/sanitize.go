// Package sanitize cleans and validates raw user input before it reaches
// the day entry. Every rejection is a *ValidationError.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

const (
	MaxDiaryNote  = 1000
	MaxFreeText   = 2000
	MaxNameLength = 100
	MaxEmail      = 255
)

var (
	// ErrValidation matches every ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrDayCapacityExceeded is returned when logged minutes would pass 24 hours.
	ErrDayCapacityExceeded = errors.New("day capacity exceeded")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error { return e.cause }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Text trims s, drops control characters other than newline and tab, and
// rejects input longer than max runes.
func Text(field, s string, max int) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if n := utf8.RuneCountInString(cleaned); n > max {
		return "", invalid(field, "is too long (%d characters, max %d)", n, max)
	}
	return cleaned, nil
}

// RequiredText is Text that also rejects empty input.
func RequiredText(field, s string, max int) (string, error) {
	cleaned, err := Text(field, s, max)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return "", invalid(field, "is required")
	}
	return cleaned, nil
}

// DiaryNote applies the diary bound.
func DiaryNote(s string) (string, error) {
	return Text("diaryNote", s, MaxDiaryNote)
}

// Email normalizes and validates an address.
func Email(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", invalid("email", "is required")
	}
	if len(email) > MaxEmail {
		return "", invalid("email", "is too long (max %d characters)", MaxEmail)
	}
	if !emailRegex.MatchString(email) {
		return "", invalid("email", "invalid email format")
	}
	return email, nil
}

// Name validates a display name.
func Name(s string) (string, error) {
	return RequiredText("name", s, MaxNameLength)
}

// Rating checks n against 1..5.
func Rating(field string, n int) error {
	if n < domain.MinRating || n > domain.MaxRating {
		return invalid(field, "must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	return nil
}

// Duration checks minutes against 1..1440.
func Duration(minutes int) error {
	if err := domain.ValidateDuration(minutes); err != nil {
		v := invalid("duration", "must be between %d and %d minutes", domain.MinActivityDuration, domain.MaxDayMinutes)
		v.cause = err
		return v
	}
	return nil
}

// Mood validates an emoji code. Empty is allowed.
func Mood(code string) (domain.Mood, error) {
	m := domain.Mood(strings.ToLower(strings.TrimSpace(code)))
	if !m.IsValid() {
		return "", invalid("mood", "unknown mood %q", code)
	}
	return m, nil
}

// Icon validates an activity category.
func Icon(s string) (domain.ActivityIcon, error) {
	icon := domain.ActivityIcon(strings.ToLower(strings.TrimSpace(s)))
	if !icon.IsValid() {
		return "", invalid("icon", "unknown icon %q", s)
	}
	return icon, nil
}

// Date validates a YYYY-MM-DD string.
func Date(field, s string) (domain.LocalDate, error) {
	d, err := domain.ParseLocalDate(strings.TrimSpace(s))
	if err != nil {
		v := invalid(field, "must be YYYY-MM-DD")
		v.cause = err
		return "", v
	}
	return d, nil
}

// CheckDayCapacity rejects adding minutes when the day would exceed 24 hours.
func CheckDayCapacity(currentMinutes, addMinutes int) error {
	if currentMinutes+addMinutes > domain.MaxDayMinutes {
		v := invalid("duration", "would bring the day to %d minutes (max %d)", currentMinutes+addMinutes, domain.MaxDayMinutes)
		v.cause = ErrDayCapacityExceeded
		return v
	}
	return nil
}

// Facets parses "id=value" pairs already split into a map. Values are
// "true"/"false" or a 1..5 rating.
func Facets(raw map[string]string) (domain.Facets, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(domain.Facets, len(raw))
	for id, value := range raw {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" {
			return nil, invalid("facets", "facet id is required")
		}
		v, err := domain.ParseFacetValue(value)
		if err != nil {
			verr := invalid("facets", "facet %q: %q is not a 1-%d rating or a boolean", key, value, domain.MaxRating)
			verr.cause = err
			return nil, verr
		}
		out[key] = v
	}
	return out, nil
}

// Notes applies the activity notes bound.
func Notes(s string) (string, error) {
	return Text("notes", s, domain.MaxActivityNotes)
}
