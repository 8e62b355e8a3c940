package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	applogger "ChartSight/pkg/logger"
)

// OutcomeArchiver consumes outcome events from Kafka and writes them to the
// archive. Used when the backend is "kafka".
type OutcomeArchiver struct {
	logger  *applogger.Logger
	archive drepo.Archive
	topic   string
}

// NewOutcomeArchiver creates a new OutcomeArchiver instance.
func NewOutcomeArchiver(lgr *applogger.Logger, archive drepo.Archive, topic string) *OutcomeArchiver {
	return &OutcomeArchiver{logger: lgr, archive: archive, topic: topic}
}

// Topic returns the Kafka topic this handler consumes.
func (h *OutcomeArchiver) Topic() string {
	return h.topic
}

// Handle archives one outcome event. Returning an error triggers the
// consumer's retry and DLQ policy.
func (h *OutcomeArchiver) Handle(ctx context.Context, data []byte) error {
	var ev models.OutcomeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("decode outcome event: %w", err)
	}
	if err := h.archive.StoreOutcome(ctx, &ev); err != nil {
		return err
	}
	h.logger.Debug("outcome archived",
		applogger.String("id", ev.ID),
		applogger.String("symbol", ev.Symbol))
	return nil
}
