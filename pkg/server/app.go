package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ChartSight/internal/domain/repository"
	"ChartSight/internal/scoring"
	"ChartSight/internal/usecase"
	"ChartSight/pkg/cache"
	pkgch "ChartSight/pkg/clickhouse"
	"ChartSight/pkg/config"
	xhttp "ChartSight/pkg/http"
	pkgkafka "ChartSight/pkg/kafka"
	applogger "ChartSight/pkg/logger"
	"ChartSight/pkg/queue"
)

const logTopic = "chartsight.logs"

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	engine     *scoring.Engine
	store      repository.RecordStore
	pub        repository.Publisher
	proc       *usecase.OutcomeProcessor
	collector  *usecase.PriceCollector
	consumer   *pkgkafka.Consumer
	archiver   *usecase.OutcomeArchiver
	queue      *queue.RedisQueue
	redis      *cache.RedisCache
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
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
) *App {
	return &App{
		cfg:       cfg,
		logger:    lgr,
		handler:   handler,
		engine:    engine,
		store:     store,
		pub:       pub,
		proc:      proc,
		collector: collector,
		consumer:  consumer,
		archiver:  archiver,
		queue:     q,
		redis:     rc,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore scorer state persisted by a previous run. A cold store is
	// fine; the engine starts from the default taxonomy weights.
	seedCtx, seedCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := usecase.LoadScorerState(seedCtx, a.store, a.engine); err != nil {
		a.logger.Warn("scorer state restore failed", applogger.Error(err))
	}
	seedCancel()

	// Aggregate repeated log lines onto the message backbone when Kafka
	// is the configured backend.
	if a.cfg.Backend.Type == "kafka" {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          logTopic,
			Publisher:      a.pub,
		})
	}

	if err := a.queue.Start(); err != nil {
		return err
	}

	if a.cfg.PriceFeed.Enabled {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.logger.Error("price collector error", applogger.Error(err))
			}
		}()
		a.logger.Info("price collector started",
			applogger.Strings("symbols", a.cfg.PriceFeed.Symbols))
	}

	if a.cfg.Backend.Type == "kafka" {
		a.consumer.RegisterHandler(a.archiver)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("outcome archiver started",
			applogger.String("topic", a.archiver.Topic()))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.cfg.PriceFeed.Enabled {
		if err := a.collector.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("price collector stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.cfg.Backend.Type == "kafka" {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if err := a.queue.Stop(shutdownCtx); err != nil {
		a.logger.Warn("queue stop error", applogger.Error(err))
	}

	// Flush any aggregated logs before the producer goes away.
	a.logger.RemoveCollector()
	a.proc.Close()

	if err := a.chClient.Close(); err != nil {
		a.logger.Warn("clickhouse close error", applogger.Error(err))
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("redis close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
