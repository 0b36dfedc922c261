package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/daylog/internal/shared/domain"
)

const (
	MinActivityDuration = 1
	// MaxDayMinutes is both the per-activity ceiling and the daily capacity.
	MaxDayMinutes      = 1440
	MaxActivityNotes   = 150
	MaxActivityLabel   = 60
	MinRating          = 1
	MaxRating          = 5
	EnergyFacet        = "energy"
	energyNeutralLevel = 3
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrInvalidIcon      = errors.New("invalid activity icon")
	ErrInvalidDuration  = errors.New("duration must be between 1 and 1440 minutes")
	ErrInvalidFacet     = errors.New("invalid facet value")
	ErrNotesTooLong     = errors.New("activity notes exceed 150 characters")
)

// ActivityIcon is the category of an activity.
type ActivityIcon string

const (
	IconWork     ActivityIcon = "work"
	IconStudy    ActivityIcon = "study"
	IconExercise ActivityIcon = "exercise"
	IconSocial   ActivityIcon = "social"
	IconCreative ActivityIcon = "creative"
	IconRest     ActivityIcon = "rest"
	IconChores   ActivityIcon = "chores"
	IconSelfCare ActivityIcon = "selfcare"
	IconOther    ActivityIcon = "other"
)

// ActivityIcons returns every category in display order.
func ActivityIcons() []ActivityIcon {
	return []ActivityIcon{
		IconWork, IconStudy, IconExercise, IconSocial, IconCreative,
		IconRest, IconChores, IconSelfCare, IconOther,
	}
}

// IsValid reports whether i is a known category.
func (i ActivityIcon) IsValid() bool {
	for _, icon := range ActivityIcons() {
		if i == icon {
			return true
		}
	}
	return false
}

// DefaultColor is the display color used when none is given.
func (i ActivityIcon) DefaultColor() string {
	switch i {
	case IconWork:
		return "#3b82f6"
	case IconStudy:
		return "#8b5cf6"
	case IconExercise:
		return "#22c55e"
	case IconSocial:
		return "#f59e0b"
	case IconCreative:
		return "#ec4899"
	case IconRest:
		return "#06b6d4"
	case IconChores:
		return "#64748b"
	case IconSelfCare:
		return "#f43f5e"
	default:
		return "#9ca3af"
	}
}

type facetKind uint8

const (
	facetRating facetKind = iota + 1
	facetPresent
)

// FacetValue is either a 1..5 rating or a present/absent marker.
// The zero value is invalid.
type FacetValue struct {
	kind    facetKind
	rating  int
	present bool
}

// Rating builds a rating facet.
func Rating(n int) (FacetValue, error) {
	if n < MinRating || n > MaxRating {
		return FacetValue{}, fmt.Errorf("%w: rating %d out of range [%d, %d]", ErrInvalidFacet, n, MinRating, MaxRating)
	}
	return FacetValue{kind: facetRating, rating: n}, nil
}

// Present builds a boolean facet.
func Present(b bool) FacetValue {
	return FacetValue{kind: facetPresent, present: b}
}

// ParseFacetValue reads "true"/"false" or an integer rating.
func ParseFacetValue(s string) (FacetValue, error) {
	s = strings.TrimSpace(s)
	if b, err := strconv.ParseBool(s); err == nil && !isDigit(s) {
		return Present(b), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return FacetValue{}, fmt.Errorf("%w: %q is neither a rating nor a boolean", ErrInvalidFacet, s)
	}
	return Rating(n)
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

func (v FacetValue) IsValid() bool { return v.kind != 0 }

// AsRating returns the rating and true when v is a rating.
func (v FacetValue) AsRating() (int, bool) { return v.rating, v.kind == facetRating }

// AsPresent returns the flag and true when v is a boolean facet.
func (v FacetValue) AsPresent() (bool, bool) { return v.present, v.kind == facetPresent }

func (v FacetValue) String() string {
	switch v.kind {
	case facetRating:
		return strconv.Itoa(v.rating)
	case facetPresent:
		return strconv.FormatBool(v.present)
	default:
		return "invalid"
	}
}

// MarshalJSON writes a bare number or a bare bool.
func (v FacetValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case facetRating:
		return []byte(strconv.Itoa(v.rating)), nil
	case facetPresent:
		return []byte(strconv.FormatBool(v.present)), nil
	default:
		return nil, ErrInvalidFacet
	}
}

// UnmarshalJSON accepts a number in 1..5 or a bool.
func (v *FacetValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Present(b)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFacet, data)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("%w: rating %v is not an integer", ErrInvalidFacet, f)
	}
	parsed, err := Rating(int(f))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Facets maps a facet id to its value.
type Facets map[string]FacetValue

// Validate rejects empty ids and zero values.
func (f Facets) Validate() error {
	for id, v := range f {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty facet id", ErrInvalidFacet)
		}
		if !v.IsValid() {
			return fmt.Errorf("%w: facet %q has no value", ErrInvalidFacet, id)
		}
	}
	return nil
}

// Clone returns an independent copy, nil for an empty map.
func (f Facets) Clone() Facets {
	if len(f) == 0 {
		return nil
	}
	return maps.Clone(f)
}

// EnergyImpact is the signed distance of the energy rating from neutral,
// nil when no energy rating was given.
func (f Facets) EnergyImpact() *int {
	rating, ok := f[EnergyFacet].AsRating()
	if !ok {
		return nil
	}
	impact := rating - energyNeutralLevel
	return &impact
}

// Activity is one logged block of time. It is a value owned by a DayEntry.
type Activity struct {
	ID        uuid.UUID    `json:"id"`
	Icon      ActivityIcon `json:"icon"`
	Label     string       `json:"label"`
	Duration  int          `json:"duration"`
	Color     string       `json:"color"`
	Facets    Facets       `json:"facets,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewActivityInput carries the fields a caller chooses for a new activity.
type NewActivityInput struct {
	Icon     ActivityIcon
	Label    string
	Duration int
	Color    string
	Facets   Facets
	Notes    string
}

// NewActivity validates input and stamps a fresh id.
func NewActivity(in NewActivityInput, createdAt time.Time) (Activity, error) {
	if !in.Icon.IsValid() {
		return Activity{}, fmt.Errorf("%w: %q", ErrInvalidIcon, in.Icon)
	}
	if err := ValidateDuration(in.Duration); err != nil {
		return Activity{}, err
	}
	if err := in.Facets.Validate(); err != nil {
		return Activity{}, err
	}
	if utf8.RuneCountInString(in.Notes) > MaxActivityNotes {
		return Activity{}, ErrNotesTooLong
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = string(in.Icon)
	}
	color := in.Color
	if color == "" {
		color = in.Icon.DefaultColor()
	}

	return Activity{
		ID:        shared.NewID(),
		Icon:      in.Icon,
		Label:     label,
		Duration:  in.Duration,
		Color:     color,
		Facets:    in.Facets.Clone(),
		Notes:     in.Notes,
		CreatedAt: createdAt.UTC(),
	}, nil
}

// ValidateDuration checks minutes against [1, 1440].
func ValidateDuration(minutes int) error {
	if minutes < MinActivityDuration || minutes > MaxDayMinutes {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	return nil
}

func (a Activity) clone() Activity {
	a.Facets = a.Facets.Clone()
	return a
}
