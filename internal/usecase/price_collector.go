package usecase

import (
	"context"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	mid "ChartSight/internal/middleware"
	"ChartSight/internal/scoring"
)

// ProfileObserver folds accepted ticks into the pair profiles. It is the
// pipeline's downstream processor.
type ProfileObserver struct {
	engine  *scoring.Engine
	metrics drepo.Metrics
}

// NewProfileObserver creates a new ProfileObserver instance.
func NewProfileObserver(engine *scoring.Engine, metrics drepo.Metrics) *ProfileObserver {
	return &ProfileObserver{engine: engine, metrics: metrics}
}

func (o *ProfileObserver) Process(_ context.Context, t *models.PriceTick) error {
	o.engine.ObservePrice(t.Symbol, t.Price)
	o.metrics.RecordLastPrice(t.Symbol, t.Price)
	return nil
}

// PriceCollector reads the live price stream and feeds it through the tick
// pipeline into the pair profiles.
type PriceCollector struct {
	stream  drepo.PriceStream
	metrics drepo.Metrics
	pipe    *mid.TickPipeline
}

// NewPriceCollector creates a new PriceCollector instance.
func NewPriceCollector(stream drepo.PriceStream, metrics drepo.Metrics, pipe *mid.TickPipeline) *PriceCollector {
	return &PriceCollector{stream: stream, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the price stream is connected.
func (c *PriceCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *PriceCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.pipe.Start(ctx)
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *PriceCollector) consume(ctx context.Context, tickCh <-chan *models.PriceTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			_ = c.pipe.Process(ctx, t)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *PriceCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
