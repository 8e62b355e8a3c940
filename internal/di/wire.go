//go:build wireinject
// +build wireinject

package di

import (
	"ChartSight/pkg/config"
	"ChartSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideQueue,
		ProvideQueueService,

		// Repositories
		ProvideRecordStore,
		ProvideArchive,
		ProvideOutcomePublisher,
		ProvidePriceStream,

		// Scoring and model clients
		ProvideEngine,
		ProvideVision,
		ProvideExtractor,

		// Use cases
		ProvideOutcomeProcessor,
		ProvideAnalyzer,
		ProvideFeedback,
		ProvideHistory,
		ProvideOutcomes,
		ProvideOutcomeArchiver,
		ProvidePriceCollector,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
