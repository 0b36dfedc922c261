package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatMinutes renders 90 as "1h 30m".
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// PrintActivity writes one activity line.
func PrintActivity(w io.Writer, a domain.Activity) {
	label := a.Label
	if label == "" {
		label = string(a.Icon)
	}
	fmt.Fprintf(w, "  %s  %-10s %-24s %8s", a.ID, a.Icon, label, FormatMinutes(a.Duration))
	if len(a.Facets) > 0 {
		fmt.Fprintf(w, "  %s", formatFacets(a.Facets))
	}
	fmt.Fprintln(w)
	if a.Notes != "" {
		fmt.Fprintf(w, "      %s\n", a.Notes)
	}
}

// PrintTask writes one task line.
func PrintTask(w io.Writer, t domain.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "  [%s] %s  %s\n", mark, t.ID, t.Text)
}

// PrintEntry writes a readable day entry.
func PrintEntry(w io.Writer, e domain.EntrySnapshot) {
	fmt.Fprintf(w, "\n  %s  (%s logged)\n", e.Date, FormatMinutes(e.TotalMinutes))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if e.DayIntention != "" {
		fmt.Fprintf(w, "  Intention: %s\n", e.DayIntention)
	}
	if c := e.EmotionalCheckIn; c != nil {
		fmt.Fprintf(w, "  Check-in: %s\n", c.Feeling)
	}

	if len(e.Activities) > 0 {
		fmt.Fprintln(w, "\n  ACTIVITIES")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, a := range e.Activities {
			PrintActivity(w, a)
		}
	}

	if len(e.Tasks) > 0 {
		fmt.Fprintln(w, "\n  TASKS")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, t := range e.Tasks {
			PrintTask(w, t)
		}
	}

	if e.DiaryNote != "" {
		fmt.Fprintln(w, "\n  DIARY")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintf(w, "  %s\n", e.DiaryNote)
	}

	if s := e.DayStory; s != nil {
		fmt.Fprintln(w, "\n  STORY")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if s.HowStarted != "" {
			fmt.Fprintf(w, "  Started: %s\n", s.HowStarted)
		}
		fmt.Fprintf(w, "  Most significant: %s\n", s.MostSignificant)
		if s.HowClosing != "" {
			fmt.Fprintf(w, "  Closing: %s\n", s.HowClosing)
		}
	}

	r := e.Reflection
	if r.Mood != "" || r.DayRating != nil || r.Highlights != "" {
		fmt.Fprintln(w, "\n  REFLECTION")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		if r.Mood != "" {
			fmt.Fprintf(w, "  Mood: %s\n", r.Mood)
		}
		if r.DayRating != nil {
			fmt.Fprintf(w, "  Rating: %d/5\n", *r.DayRating)
		}
		if r.Highlights != "" {
			fmt.Fprintf(w, "  Highlights: %s\n", r.Highlights)
		}
	}
	fmt.Fprintln(w)
}

func formatFacets(f domain.Facets) string {
	parts := make([]string, 0, len(f))
	for _, id := range slices.Sorted(maps.Keys(f)) {
		parts = append(parts, id+"="+f[id].String())
	}
	return strings.Join(parts, " ")
}
