package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/daylog/pkg/observability"
)

func TestNewEventMetadata(t *testing.T) {
	t.Run("uses correlation id from context", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), "req-1")

		metadata := NewEventMetadata(ctx, "ada@example.com")

		assert.Equal(t, "req-1", metadata.CorrelationID)
		assert.Equal(t, "ada@example.com", metadata.Owner)
	})

	t.Run("generates a correlation id otherwise", func(t *testing.T) {
		first := NewEventMetadata(context.Background(), "")
		second := NewEventMetadata(context.Background(), "")

		assert.NotEmpty(t, first.CorrelationID)
		assert.NotEqual(t, first.CorrelationID, second.CorrelationID)
		assert.Empty(t, first.Owner)
	})
}
