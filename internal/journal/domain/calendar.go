package domain

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DateLayout is the ISO calendar date used for keys and documents.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for strings that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// LocalDate is a calendar day in the user's canonical zone, formatted
// YYYY-MM-DD. Lexical order equals chronological order.
type LocalDate string

// ParseLocalDate validates s as a calendar date.
func ParseLocalDate(s string) (LocalDate, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return LocalDate(s), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) LocalDate {
	return LocalDate(t.Format(DateLayout))
}

func (d LocalDate) String() string { return string(d) }

// IsZero reports whether the date is unset.
func (d LocalDate) IsZero() bool { return d == "" }

// Time returns midnight of d in loc.
func (d LocalDate) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays shifts the date by n calendar days.
func (d LocalDate) AddDays(n int) LocalDate {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

func (d LocalDate) Before(other LocalDate) bool { return d < other }

func (d LocalDate) After(other LocalDate) bool { return d > other }

// Within reports whether d falls in [from, to], both ends inclusive.
func (d LocalDate) Within(from, to LocalDate) bool {
	return d >= from && d <= to
}

// Clock is the single source of "now" and "today" for the engine.
type Clock interface {
	Now() time.Time
	Today() LocalDate
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock for loc, or time.Local when loc is nil.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time { return time.Now().In(c.loc) }

func (c SystemClock) Today() LocalDate { return DateOf(c.Now()) }

func (c SystemClock) Location() *time.Location { return c.loc }

// FixedClock is a settable clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock frozen at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// ClockAt returns a clock frozen at noon UTC on date.
func ClockAt(date LocalDate) *FixedClock {
	return NewFixedClock(date.Time(time.UTC).Add(12 * time.Hour))
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Today() LocalDate { return DateOf(c.Now()) }

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
