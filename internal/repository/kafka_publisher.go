package repository

import (
	"context"

	"ChartSight/internal/domain/models"
	"ChartSight/internal/domain/repository"
	pkgkafka "ChartSight/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Outcome events are keyed by
// symbol so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher for the outcomes topic.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishOutcome(ctx context.Context, ev *models.OutcomeEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

// PublishMessage publishes an arbitrary payload to a topic. Used by the log
// collector for aggregated log batches.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
