package di

import (
	"context"
	"fmt"
	"time"

	"ChartSight/internal/domain/repository"
	dservice "ChartSight/internal/domain/service"
	"ChartSight/internal/handler/api"
	mid "ChartSight/internal/middleware"
	internalrepo "ChartSight/internal/repository"
	"ChartSight/internal/scoring"
	"ChartSight/internal/service/pricefeed"
	"ChartSight/internal/services/vision"
	"ChartSight/internal/usecase"
	"ChartSight/pkg/cache"
	pkgch "ChartSight/pkg/clickhouse"
	"ChartSight/pkg/config"
	pkgkafka "ChartSight/pkg/kafka"
	applogger "ChartSight/pkg/logger"
	"ChartSight/pkg/metrics"
	"ChartSight/pkg/queue"
	"ChartSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideRedisCache creates the shared Redis client.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	opts := []cache.RedisOption{
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	}
	if cfg.Redis.KeyPrefix != "" {
		opts = append(opts, cache.WithRedisPrefix(cfg.Redis.KeyPrefix))
	}
	rc, err := cache.NewRedisCache(opts...)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService exposes the Redis cache behind the Service interface.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	return rc
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArchive creates the ClickHouse archive and ensures its schema.
func ProvideArchive(chClient *pkgch.Client, cfg *config.Config) (repository.Archive, error) {
	archive := internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		return nil, fmt.Errorf("archive init: %w", err)
	}
	return archive, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideOutcomePublisher creates the Kafka publisher repository.
func ProvideOutcomePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideOutcomeArchiver registers the handler for the outcomes topic.
func ProvideOutcomeArchiver(lgr *applogger.Logger, archive repository.Archive, cfg *config.Config) *usecase.OutcomeArchiver {
	return usecase.NewOutcomeArchiver(lgr, archive, cfg.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRecordStore creates the Redis record store.
func ProvideRecordStore(rc *cache.RedisCache, cfg *config.Config) repository.RecordStore {
	return internalrepo.NewRedisRecordStore(rc, cfg.History.MaxPerSymbol)
}

// ProvideEngine creates the scoring engine over a fresh learning store. The
// store is seeded from Redis at startup.
func ProvideEngine() *scoring.Engine {
	return scoring.NewEngine(scoring.NewLearningStore(), nil)
}

// ProvideVision creates the vision model client.
func ProvideVision(lgr *applogger.Logger, cfg *config.Config) dservice.ChartVision {
	apiKey := ""
	if cfg.Vision.Enabled {
		apiKey = cfg.Vision.APIKey
	}
	return vision.NewClient(lgr, vision.Config{
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		APIKey:  apiKey,
		Timeout: cfg.Vision.Timeout,
	})
}

// ProvideExtractor creates the simulated detail extractor.
func ProvideExtractor() usecase.DetailExtractor {
	return vision.NewSimulator(nil)
}

// ProvideOutcomeProcessor creates the outcome processor use case.
func ProvideOutcomeProcessor(
	pub repository.Publisher,
	archive repository.Archive,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.OutcomeProcessor {
	return usecase.NewOutcomeProcessor(pub, archive, m, cfg.Backend.Type)
}

// ProvideAnalyzer creates the analyzer use case.
func ProvideAnalyzer(
	lgr *applogger.Logger,
	engine *scoring.Engine,
	v dservice.ChartVision,
	extractor usecase.DetailExtractor,
	store repository.RecordStore,
	proc *usecase.OutcomeProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(lgr, engine, v, extractor, store, proc, m, cfg.Vision.Timeout)
}

// ProvideQueue creates the Redis job queue with the feedback archive job.
func ProvideQueue(lgr *applogger.Logger, cfg *config.Config, rc *cache.RedisCache, archive repository.Archive) *queue.RedisQueue {
	var opts []queue.RedisQueueOption
	if cfg.Queue.KeyPrefix != "" {
		opts = append(opts, queue.WithKeyPrefix(cfg.Queue.KeyPrefix))
	}
	q := queue.NewRedisQueue(lgr, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}, rc.Client(), queue.ModeProducerConsumer, opts...)
	q.RegisterJob(usecase.NewFeedbackArchiveJob(archive))
	return q
}

// ProvideQueueService exposes the queue behind the publisher interface.
func ProvideQueueService(q *queue.RedisQueue) queue.QueueService {
	return q
}

// ProvideFeedback creates the feedback use case.
func ProvideFeedback(
	lgr *applogger.Logger,
	engine *scoring.Engine,
	store repository.RecordStore,
	locks cache.Service,
	q queue.QueueService,
	m repository.Metrics,
) *usecase.Feedback {
	return usecase.NewFeedback(lgr, engine, store, locks, q, m)
}

// ProvideHistory creates the history use case.
func ProvideHistory(store repository.RecordStore, cfg *config.Config) *usecase.History {
	return usecase.NewHistory(store, cfg.History.CacheTTL)
}

// ProvideOutcomes creates the outcomes query use case.
func ProvideOutcomes(archive repository.Archive) *usecase.Outcomes {
	return usecase.NewOutcomes(archive)
}

// ProvidePriceStream creates the WebSocket price stream.
func ProvidePriceStream(cfg *config.Config) repository.PriceStream {
	return pricefeed.New(
		cfg.PriceFeed.WebSocketURL,
		cfg.PriceFeed.Symbols,
		cfg.PriceFeed.ReconnectDelay,
		cfg.PriceFeed.PingInterval,
	)
}

// ProvidePriceCollector creates the price collector with its tick pipeline.
func ProvidePriceCollector(
	stream repository.PriceStream,
	engine *scoring.Engine,
	m repository.Metrics,
) *usecase.PriceCollector {
	observer := usecase.NewProfileObserver(engine, m)
	pipe := mid.NewTickPipeline(observer, m,
		mid.WithMaxRPS(10),
		mid.WithBufferSize(2000),
	)
	return usecase.NewPriceCollector(stream, m, pipe)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	lgr *applogger.Logger,
	analyzer *usecase.Analyzer,
	feedback *usecase.Feedback,
	history *usecase.History,
	outcomes *usecase.Outcomes,
	store repository.RecordStore,
	engine *scoring.Engine,
	cfg *config.Config,
) *api.AnalysisEchoHandler {
	return api.NewAnalysisEchoHandler(lgr, analyzer, feedback, history, outcomes, store, engine, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler *api.AnalysisEchoHandler,
	engine *scoring.Engine,
	store repository.RecordStore,
	pub repository.Publisher,
	proc *usecase.OutcomeProcessor,
	collector *usecase.PriceCollector,
	consumer *pkgkafka.Consumer,
	archiver *usecase.OutcomeArchiver,
	q *queue.RedisQueue,
	rc *cache.RedisCache,
	chClient *pkgch.Client,
) *server.App {
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return server.New(cfg, lgr, handler, engine, store, pub, proc, collector, consumer, archiver, q, rc, chClient)
}
