package repository

import (
	"context"
	"time"

	"ChartSight/internal/domain/models"
)

// RecordStore is the primary key-value persistence for analysis records and
// scorer state snapshots.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *models.AnalysisRecord) error // assigns ID + Timestamp
	GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error)
	UpdateRecord(ctx context.Context, rec *models.AnalysisRecord) error
	RecentRecords(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error)
	RecentOutcomes(ctx context.Context, symbol string, limit int) ([]models.HistoricalOutcome, error)

	SaveLearningState(ctx context.Context, pattern string, st models.PatternLearningState) error
	LoadLearningStates(ctx context.Context) (map[string]models.PatternLearningState, error)
	SavePairProfile(ctx context.Context, symbol string, p models.TradingPairProfile) error
	LoadPairProfiles(ctx context.Context) (map[string]models.TradingPairProfile, error)

	Health(ctx context.Context) error
}

// Archive is the append-only analytical store for outcomes and feedback.
type Archive interface {
	Init(ctx context.Context) error
	StoreOutcome(ctx context.Context, ev *models.OutcomeEvent) error
	StoreFeedback(ctx context.Context, ev *models.FeedbackEvent) error
	QueryOutcomes(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.OutcomeEvent, error)
	Health(ctx context.Context) error
}

// Publisher emits events onto the message backbone.
type Publisher interface {
	PublishOutcome(ctx context.Context, ev *models.OutcomeEvent) error
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordAnalysis(source, symbol string)
	RecordFeedback(result string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

// PriceStream is a live feed of trade prices for the configured symbols.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.PriceTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}
