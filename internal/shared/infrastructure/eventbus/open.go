package eventbus

import (
	"log/slog"

	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// Config selects the publisher.
type Config struct {
	Enabled      bool
	RabbitMQURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

// NewPublisher picks RabbitMQ, then Kafka, then the in-process bus.
// Disabled events get a NoopPublisher.
func NewPublisher(cfg Config, logger *slog.Logger, metrics observability.Metrics) (Publisher, error) {
	switch {
	case !cfg.Enabled:
		return NewNoopPublisher(logger), nil
	case cfg.RabbitMQURL != "":
		return NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	case len(cfg.KafkaBrokers) > 0:
		return NewKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}, logger)
	default:
		bus := NewInProcessEventBus(logger)
		if metrics != nil {
			bus.RegisterConsumer(NewMetricsConsumer(metrics, "#"))
		}
		return bus, nil
	}
}
