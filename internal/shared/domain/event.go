package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate. Revision is the aggregate
// revision right after the change, so consumers can order and dedupe.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	AggregateRevision() int64
	RoutingKey() string
	OccurredAt() time.Time
}

// EventMetadata is attached at publish time, not when the event is raised.
type EventMetadata struct {
	CorrelationID string
	Owner         string
}

// BaseEvent implements DomainEvent for embedding.
type BaseEvent struct {
	eventID       uuid.UUID
	aggregateID   uuid.UUID
	aggregateType string
	revision      int64
	routingKey    string
	occurredAt    time.Time
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType string, revision int64, routingKey string) BaseEvent {
	return BaseEvent{
		eventID:       NewID(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		revision:      revision,
		routingKey:    routingKey,
		occurredAt:    time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID       { return e.eventID }
func (e BaseEvent) AggregateID() uuid.UUID   { return e.aggregateID }
func (e BaseEvent) AggregateType() string    { return e.aggregateType }
func (e BaseEvent) AggregateRevision() int64 { return e.revision }
func (e BaseEvent) RoutingKey() string       { return e.routingKey }
func (e BaseEvent) OccurredAt() time.Time    { return e.occurredAt }
