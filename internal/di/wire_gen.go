// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"ChartSight/pkg/config"
	"ChartSight/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	engine := ProvideEngine()
	chartVision := ProvideVision(logger, cfg)
	detailExtractor := ProvideExtractor()
	redisCache, err := ProvideRedisCache(cfg)
	if err != nil {
		return nil, err
	}
	recordStore := ProvideRecordStore(redisCache, cfg)
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	publisher := ProvideOutcomePublisher(producer, cfg)
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	archive, err := ProvideArchive(client, cfg)
	if err != nil {
		return nil, err
	}
	metrics := ProvideMetrics()
	outcomeProcessor := ProvideOutcomeProcessor(publisher, archive, metrics, cfg)
	analyzer := ProvideAnalyzer(logger, engine, chartVision, detailExtractor, recordStore, outcomeProcessor, metrics, cfg)
	service := ProvideCacheService(redisCache)
	redisQueue := ProvideQueue(logger, cfg, redisCache, archive)
	queueService := ProvideQueueService(redisQueue)
	feedback := ProvideFeedback(logger, engine, recordStore, service, queueService, metrics)
	history := ProvideHistory(recordStore, cfg)
	outcomes := ProvideOutcomes(archive)
	analysisEchoHandler := ProvideHandler(logger, analyzer, feedback, history, outcomes, recordStore, engine, cfg)
	priceStream := ProvidePriceStream(cfg)
	priceCollector := ProvidePriceCollector(priceStream, engine, metrics)
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	outcomeArchiver := ProvideOutcomeArchiver(logger, archive, cfg)
	app := ProvideApp(cfg, logger, analysisEchoHandler, engine, recordStore, publisher, outcomeProcessor, priceCollector, consumer, outcomeArchiver, redisQueue, redisCache, client)
	return app, nil
}
