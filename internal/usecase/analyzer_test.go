package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"ChartSight/internal/domain/models"
	"ChartSight/internal/scoring"
	applogger "ChartSight/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testEngine(seed int64) *scoring.Engine {
	return scoring.NewEngine(scoring.NewLearningStore(), rand.New(rand.NewSource(seed)))
}

// memStore is an in-memory RecordStore for usecase tests.
type memStore struct {
	mu       sync.Mutex
	records  map[string]*models.AnalysisRecord
	learning map[string]models.PatternLearningState
	profiles map[string]models.TradingPairProfile
	seq      int
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[string]*models.AnalysisRecord),
		learning: make(map[string]models.PatternLearningState),
		profiles: make(map[string]models.TradingPairProfile),
	}
}

func (s *memStore) SaveRecord(_ context.Context, rec *models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.seq++
	rec.ID = fmt.Sprintf("an-%06d", s.seq)
	rec.Timestamp = time.Now().UTC()
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *memStore) GetRecord(_ context.Context, id string) (*models.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) UpdateRecord(_ context.Context, rec *models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *memStore) RecentRecords(_ context.Context, _ string, _ int) ([]*models.AnalysisRecord, error) {
	return nil, nil
}

func (s *memStore) RecentOutcomes(_ context.Context, _ string, _ int) ([]models.HistoricalOutcome, error) {
	return nil, nil
}

func (s *memStore) SaveLearningState(_ context.Context, pattern string, st models.PatternLearningState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learning[pattern] = st
	return nil
}

func (s *memStore) LoadLearningStates(_ context.Context) (map[string]models.PatternLearningState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.PatternLearningState, len(s.learning))
	for k, v := range s.learning {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) SavePairProfile(_ context.Context, symbol string, p models.TradingPairProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[symbol] = p
	return nil
}

func (s *memStore) LoadPairProfiles(_ context.Context) (map[string]models.TradingPairProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.TradingPairProfile, len(s.profiles))
	for k, v := range s.profiles {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Health(_ context.Context) error { return nil }

// fakeMetrics counts recorder calls.
type fakeMetrics struct {
	mu       sync.Mutex
	analyses map[string]int
	feedback map[string]int
	errs     map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		analyses: make(map[string]int),
		feedback: make(map[string]int),
		errs:     make(map[string]int),
	}
}

func (m *fakeMetrics) RecordAnalysis(source, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[source]++
}

func (m *fakeMetrics) RecordFeedback(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[result]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *fakeMetrics) RecordLastPrice(_ string, _ float64) {}
func (m *fakeMetrics) RecordLatency(_ string, _ float64)   {}

// stubVision is a scripted ChartVision.
type stubVision struct {
	enabled  bool
	analysis *models.ChartAnalysis
	err      error
	calls    int
}

func (v *stubVision) AnalyzeChart(_ context.Context, _, _ string) (*models.ChartAnalysis, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	cp := *v.analysis
	return &cp, nil
}

func (v *stubVision) Enabled() bool { return v.enabled }

// stubExtractor returns fixed trading details.
type stubExtractor struct{}

func (stubExtractor) Extract(symbol string, currentPrice float64, _ bool) *models.ChartAnalysis {
	pair := symbol
	if pair == "" {
		pair = "BTC/USDT"
	}
	entry := currentPrice
	if entry <= 0 {
		entry = 61000
	}
	return &models.ChartAnalysis{
		Pair:       pair,
		Entry:      entry,
		StopLoss:   entry * 0.98,
		TakeProfit: entry * 1.04,
		Timeframe:  "1h",
		Indicators: []string{"RSI", "MACD"},
	}
}

func newTestAnalyzer(t *testing.T, store *memStore, v *stubVision, m *fakeMetrics) *Analyzer {
	t.Helper()
	return NewAnalyzer(testLogger(t), testEngine(42), v, stubExtractor{}, store, nil, m, time.Second)
}

func TestAnalyzeVisionFailureFallsBackToSimulator(t *testing.T) {
	store := newMemStore()
	m := newFakeMetrics()
	v := &stubVision{enabled: true, err: errors.New("model unavailable")}
	a := newTestAnalyzer(t, store, v, m)

	rec, err := a.Analyze(context.Background(), &models.AnalyzeRequest{
		Symbol:       "BTC/USDT",
		ImageBase64:  "aGVsbG8=",
		CurrentPrice: 61000,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v.calls != 1 {
		t.Fatalf("vision calls = %d, want 1", v.calls)
	}
	if rec.Source != "simulated" {
		t.Fatalf("source = %q, want simulated", rec.Source)
	}
	if rec.ID == "" {
		t.Fatal("record id not assigned")
	}
	if !scoring.IsKnownPattern(rec.Pattern) {
		t.Fatalf("unknown pattern %q", rec.Pattern)
	}
	if rec.Confidence < 50 || rec.Confidence > 95 {
		t.Fatalf("confidence %d out of [50,95]", rec.Confidence)
	}
	if rec.WinRate < 50 || rec.WinRate > 90 {
		t.Fatalf("win rate %d out of [50,90]", rec.WinRate)
	}
	if rec.Explanation == "" {
		t.Fatal("explanation empty")
	}
	if m.errs["vision"] != 1 {
		t.Fatalf("vision error count = %d, want 1", m.errs["vision"])
	}
	if m.analyses["simulated"] != 1 {
		t.Fatalf("simulated analysis count = %d, want 1", m.analyses["simulated"])
	}
}

func TestAnalyzeVisionPath(t *testing.T) {
	store := newMemStore()
	m := newFakeMetrics()
	v := &stubVision{enabled: true, analysis: &models.ChartAnalysis{
		Pair:       "ETH/USDT",
		Pattern:    "Hammer Candlestick",
		Prediction: models.PredictionBullish,
		Confidence: 80,
		Entry:      3400,
		StopLoss:   3330,
		TakeProfit: 3550,
		Timeframe:  "4h",
	}}
	a := newTestAnalyzer(t, store, v, m)

	rec, err := a.Analyze(context.Background(), &models.AnalyzeRequest{
		Symbol:      "ETH/USDT",
		ImageBase64: "aGVsbG8=",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Source != "vision" {
		t.Fatalf("source = %q, want vision", rec.Source)
	}
	if rec.Pattern != "Hammer Candlestick" {
		t.Fatalf("pattern = %q", rec.Pattern)
	}
	// No feedback exists yet, so the confidence passes through unchanged.
	if rec.Confidence != 80 {
		t.Fatalf("confidence = %d, want 80", rec.Confidence)
	}
	if m.analyses["vision"] != 1 {
		t.Fatalf("vision analysis count = %d, want 1", m.analyses["vision"])
	}
}

func TestAnalyzeWithoutImageSkipsVision(t *testing.T) {
	store := newMemStore()
	v := &stubVision{enabled: true, analysis: &models.ChartAnalysis{Pattern: "Doji"}}
	a := newTestAnalyzer(t, store, v, newFakeMetrics())

	rec, err := a.Analyze(context.Background(), &models.AnalyzeRequest{
		Symbol:       "BTC/USDT",
		CurrentPrice: 61000,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v.calls != 0 {
		t.Fatalf("vision calls = %d, want 0", v.calls)
	}
	if rec.Source != "simulated" {
		t.Fatalf("source = %q, want simulated", rec.Source)
	}
}

func TestAnalyzeSaveErrorIsFatal(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("redis down")
	m := newFakeMetrics()
	a := newTestAnalyzer(t, store, &stubVision{}, m)

	_, err := a.Analyze(context.Background(), &models.AnalyzeRequest{Symbol: "BTC/USDT", CurrentPrice: 61000})
	if err == nil {
		t.Fatal("expected error when the record store fails")
	}
	if m.errs["save_record"] != 1 {
		t.Fatalf("save_record error count = %d, want 1", m.errs["save_record"])
	}
}

func TestAnalyzeUpdatesPairProfile(t *testing.T) {
	store := newMemStore()
	a := newTestAnalyzer(t, store, &stubVision{}, newFakeMetrics())

	rec, err := a.Analyze(context.Background(), &models.AnalyzeRequest{Symbol: "BTC/USDT", CurrentPrice: 61000})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	p, ok := store.profiles["BTC/USDT"]
	if !ok {
		t.Fatal("pair profile not snapshotted")
	}
	if p.Volatility != 0.02 {
		t.Fatalf("initial volatility = %v, want 0.02", p.Volatility)
	}
	if p.Patterns[rec.Pattern] != 1 {
		t.Fatalf("pattern count = %d, want 1", p.Patterns[rec.Pattern])
	}
}

func TestLoadScorerState(t *testing.T) {
	store := newMemStore()
	store.learning["Doji"] = models.PatternLearningState{
		ConfidenceAdjustment: 3,
		FeedbackCount:        8,
		SuccessCount:         6,
	}
	store.profiles["BTC/USDT"] = models.TradingPairProfile{
		Volatility:    0.05,
		LastSeenPrice: 61000,
		Patterns:      map[string]int{"Doji": 2},
	}

	engine := testEngine(1)
	if err := LoadScorerState(context.Background(), store, engine); err != nil {
		t.Fatalf("LoadScorerState: %v", err)
	}

	st, ok := engine.Store().LearningState("Doji")
	if !ok {
		t.Fatal("learning state not seeded")
	}
	if st.FeedbackCount != 8 || st.SuccessCount != 6 || st.ConfidenceAdjustment != 3 {
		t.Fatalf("seeded state = %+v", st)
	}
	p, ok := engine.Store().Profile("BTC/USDT")
	if !ok {
		t.Fatal("pair profile not seeded")
	}
	if p.LastSeenPrice != 61000 {
		t.Fatalf("seeded last seen price = %v", p.LastSeenPrice)
	}
}
