package usecase

import (
	"context"
	"fmt"
	"time"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
)

// OutcomeProcessor routes outcome events to the configured backend: through
// Kafka for the consumer to archive, or straight into ClickHouse.
type OutcomeProcessor struct {
	pub     drepo.Publisher
	archive drepo.Archive
	metrics drepo.Metrics
	backend string
}

// NewOutcomeProcessor creates a new OutcomeProcessor instance.
func NewOutcomeProcessor(
	pub drepo.Publisher,
	archive drepo.Archive,
	metrics drepo.Metrics,
	backend string,
) *OutcomeProcessor {
	return &OutcomeProcessor{
		pub:     pub,
		archive: archive,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single outcome event to the configured backend.
func (p *OutcomeProcessor) Process(ctx context.Context, ev *models.OutcomeEvent) error {
	if ev == nil {
		return fmt.Errorf("outcome event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishOutcome(ctx, ev)
	case "clickhouse":
		err = p.archive.StoreOutcome(ctx, ev)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("outcome")
		return fmt.Errorf("process outcome: %w", err)
	}

	p.metrics.RecordLatency("outcome", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *OutcomeProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
