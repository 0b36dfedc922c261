package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
)

// ParseID parses an activity or task id.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// ParseFacetFlags turns repeated key=value flags into a map. Values are
// validated later by the command handler.
func ParseFacetFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	facets := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid facet %q (use key=value)", pair)
		}
		facets[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return facets, nil
}

// ParseDate parses an optional YYYY-MM-DD flag. Empty returns fallback.
func ParseDate(s string, fallback domain.LocalDate) (domain.LocalDate, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := domain.ParseLocalDate(s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}
