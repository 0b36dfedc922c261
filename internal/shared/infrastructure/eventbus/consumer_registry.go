package eventbus

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// ConsumerRegistry routes events to consumers by routing-key pattern.
type ConsumerRegistry struct {
	registrations []registration
	mu            sync.RWMutex
	logger        *slog.Logger
}

type registration struct {
	patterns []string
	consumer EventConsumer
}

func (r registration) matches(routingKey string) bool {
	for _, p := range r.patterns {
		if MatchRoutingKey(p, routingKey) {
			return true
		}
	}
	return false
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer for its declared patterns.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	patterns := consumer.EventTypes()
	r.registrations = append(r.registrations, registration{patterns: patterns, consumer: consumer})
	r.logger.Debug("registered event consumer", "patterns", patterns)
}

// GetConsumers returns the consumers whose patterns match routingKey. A
// consumer is listed once even if several of its patterns match.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var consumers []EventConsumer
	for _, reg := range r.registrations {
		if reg.matches(routingKey) {
			consumers = append(consumers, reg.consumer)
		}
	}
	return consumers
}

// Dispatch hands event to every matching consumer. A failing consumer does
// not stop the others; the last error is returned.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.GetConsumers(event.RoutingKey)

	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	var lastErr error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			lastErr = err
		}
	}

	return lastErr
}

// ConsumerCount returns the number of registered consumers.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// MatchRoutingKey reports whether key matches a topic pattern.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			rest := pattern[1:]
			for i := 0; i <= len(key); i++ {
				if matchWords(rest, key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
