// Package eventbus publishes domain events after they are persisted.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/daylog/internal/shared/domain"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// PublishEvents encodes each event with metadata and publishes it under
// its routing key. It stops at the first failure and returns how many
// events were published.
func PublishEvents(ctx context.Context, p Publisher, events []domain.DomainEvent, metadata domain.EventMetadata) (int, error) {
	for i, event := range events {
		payload, err := EncodeEvent(event, metadata)
		if err != nil {
			return i, err
		}
		if err := p.Publish(ctx, event.RoutingKey(), payload); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

// NoopPublisher drops every message. It is used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
