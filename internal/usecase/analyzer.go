package usecase

import (
	"context"
	"fmt"
	"time"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	dservice "ChartSight/internal/domain/service"
	"ChartSight/internal/scoring"
	"ChartSight/internal/services/explain"
	applogger "ChartSight/pkg/logger"
)

const historyContext = 50

// DetailExtractor produces simulated trading details when no vision result
// is available.
type DetailExtractor interface {
	Extract(symbol string, currentPrice float64, bullish bool) *models.ChartAnalysis
}

// Analyzer runs one chart analysis: vision model first when an image is
// supplied, simulated scorer otherwise or on any vision failure. The vision
// path never fails the request; it degrades to the simulator.
type Analyzer struct {
	logger        *applogger.Logger
	engine        *scoring.Engine
	vision        dservice.ChartVision
	extractor     DetailExtractor
	store         drepo.RecordStore
	proc          *OutcomeProcessor
	metrics       drepo.Metrics
	visionTimeout time.Duration
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(
	lgr *applogger.Logger,
	engine *scoring.Engine,
	vision dservice.ChartVision,
	extractor DetailExtractor,
	store drepo.RecordStore,
	proc *OutcomeProcessor,
	metrics drepo.Metrics,
	visionTimeout time.Duration,
) *Analyzer {
	if visionTimeout <= 0 {
		visionTimeout = 20 * time.Second
	}
	return &Analyzer{
		logger:        lgr,
		engine:        engine,
		vision:        vision,
		extractor:     extractor,
		store:         store,
		proc:          proc,
		metrics:       metrics,
		visionTimeout: visionTimeout,
	}
}

// Analyze produces and persists one analysis record.
func (a *Analyzer) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalysisRecord, error) {
	start := time.Now()

	history, err := a.store.RecentOutcomes(ctx, req.Symbol, historyContext)
	if err != nil {
		// history only biases the draw; an empty context is a valid one
		a.logger.Warn("history unavailable", applogger.Error(err))
		history = nil
	}

	analysis, source := a.classify(ctx, req, history)

	symbol := req.Symbol
	if symbol == "" {
		symbol = analysis.Pair
	}

	stats := a.engine.ComputeStatistics(analysis.Pattern, history)

	rec := &models.AnalysisRecord{
		Symbol:     symbol,
		Pattern:    analysis.Pattern,
		Prediction: analysis.Prediction,
		Confidence: analysis.Confidence,
		WinRate:    stats.WinRate,
		SampleSize: stats.SampleSize,
		Entry:      analysis.Entry,
		StopLoss:   analysis.StopLoss,
		TakeProfit: analysis.TakeProfit,
		Timeframe:  analysis.Timeframe,
		Indicators: analysis.Indicators,
		Source:     source,
	}
	rec.Explanation = explain.Compose(rec)

	if err := a.store.SaveRecord(ctx, rec); err != nil {
		a.metrics.RecordError("save_record")
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	profile := a.engine.UpdatePairProfile(symbol, req.CurrentPrice, rec.Pattern)
	if err := a.store.SavePairProfile(ctx, symbol, profile); err != nil {
		a.logger.Warn("profile snapshot failed", applogger.Error(err))
	}

	a.emitOutcome(ctx, rec)

	a.metrics.RecordAnalysis(source, symbol)
	a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	return rec, nil
}

// classify tries the vision model and falls back to the weighted selector.
func (a *Analyzer) classify(ctx context.Context, req *models.AnalyzeRequest, history []models.HistoricalOutcome) (*models.ChartAnalysis, string) {
	if req.ImageBase64 != "" && a.vision != nil && a.vision.Enabled() {
		vctx, cancel := context.WithTimeout(ctx, a.visionTimeout)
		analysis, err := a.vision.AnalyzeChart(vctx, req.ImageBase64, req.Symbol)
		cancel()
		if err == nil {
			analysis.Confidence = a.engine.AdjustConfidence(analysis.Pattern, analysis.Confidence)
			return analysis, "vision"
		}
		a.metrics.RecordError("vision")
		a.logger.Warn("vision analysis failed, using simulator",
			applogger.String("symbol", req.Symbol),
			applogger.Error(err))
	}

	sel := a.engine.SelectPattern(req.Symbol, req.CurrentPrice, history)
	analysis := a.extractor.Extract(req.Symbol, req.CurrentPrice, sel.Prediction == models.PredictionBullish)
	analysis.Pattern = sel.Pattern
	analysis.Prediction = sel.Prediction
	analysis.Confidence = sel.Confidence
	return analysis, "simulated"
}

// emitOutcome forwards the outcome event to the configured backend. Event
// delivery is best-effort; the record is already persisted.
func (a *Analyzer) emitOutcome(ctx context.Context, rec *models.AnalysisRecord) {
	if a.proc == nil {
		return
	}
	ev := &models.OutcomeEvent{
		ID:         rec.ID,
		Symbol:     rec.Symbol,
		Pattern:    rec.Pattern,
		Prediction: string(rec.Prediction),
		Confidence: rec.Confidence,
		WinRate:    rec.WinRate,
		SampleSize: rec.SampleSize,
		Source:     rec.Source,
		Timestamp:  rec.Timestamp,
	}
	if err := a.proc.Process(ctx, ev); err != nil {
		a.logger.Warn("outcome event dropped",
			applogger.String("id", rec.ID),
			applogger.Error(err))
	}
}

// LoadScorerState seeds the engine's learning store from persisted snapshots.
func LoadScorerState(ctx context.Context, store drepo.RecordStore, engine *scoring.Engine) error {
	learning, err := store.LoadLearningStates(ctx)
	if err != nil {
		return fmt.Errorf("load learning states: %w", err)
	}
	profiles, err := store.LoadPairProfiles(ctx)
	if err != nil {
		return fmt.Errorf("load pair profiles: %w", err)
	}
	engine.Store().Seed(learning, profiles)
	return nil
}
