package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daylog/internal/shared/domain"
)

// EventConsumer handles events whose routing key matches one of its
// patterns. Patterns use topic-exchange syntax: "*" matches one word and
// "#" matches zero or more, e.g. "journal.activity.*" or "journal.#".
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent is the wire envelope of a domain event.
type ConsumedEvent struct {
	EventID           uuid.UUID       `json:"event_id"`
	AggregateID       uuid.UUID       `json:"aggregate_id"`
	AggregateType     string          `json:"aggregate_type"`
	AggregateRevision int64           `json:"aggregate_revision"`
	RoutingKey        string          `json:"routing_key"`
	OccurredAt        time.Time       `json:"occurred_at"`
	Payload           json.RawMessage `json:"payload"`
	Metadata          EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata is the envelope form of domain.EventMetadata.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	Owner         string `json:"owner,omitempty"`
}

// NewEnvelope wraps event. The payload is the event's own JSON form.
func NewEnvelope(event domain.DomainEvent, metadata domain.EventMetadata) (*ConsumedEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.RoutingKey(), err)
	}
	return &ConsumedEvent{
		EventID:           event.EventID(),
		AggregateID:       event.AggregateID(),
		AggregateType:     event.AggregateType(),
		AggregateRevision: event.AggregateRevision(),
		RoutingKey:        event.RoutingKey(),
		OccurredAt:        event.OccurredAt(),
		Payload:           payload,
		Metadata: EventMetadata{
			CorrelationID: metadata.CorrelationID,
			Owner:         metadata.Owner,
		},
	}, nil
}

// EncodeEvent returns the JSON envelope for event.
func EncodeEvent(event domain.DomainEvent, metadata domain.EventMetadata) ([]byte, error) {
	envelope, err := NewEnvelope(event, metadata)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope)
}
