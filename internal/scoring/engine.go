package scoring

import (
	"math/rand"
	"sync"
	"time"

	"ChartSight/internal/domain/models"
)

// Engine ties the learning store to the weighted-random selection and
// statistics blending. The random source is injected so tests can seed it;
// a nil source falls back to a time-seeded one. rand.Rand is not safe for
// concurrent use, so draws go through the engine mutex.
type Engine struct {
	store *LearningStore

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine creates an engine over store. rnd may be nil.
func NewEngine(store *LearningStore, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{store: store, rnd: rnd}
}

// Store exposes the underlying learning store.
func (e *Engine) Store() *LearningStore {
	return e.store
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Intn(n)
}

func (e *Engine) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Float64()
}

// RecordFeedback folds one correct/incorrect signal into the learning state
// for pattern and returns the updated state.
func (e *Engine) RecordFeedback(pattern string, correct bool) (models.PatternLearningState, error) {
	return e.store.ApplyFeedback(pattern, correct)
}

// UpdatePairProfile tracks an analysis result against the pair profile and
// returns the updated profile.
func (e *Engine) UpdatePairProfile(symbol string, price float64, pattern string) models.TradingPairProfile {
	return e.store.RecordAnalysis(symbol, price, pattern)
}

// ObservePrice folds a live tick into the pair profile.
func (e *Engine) ObservePrice(symbol string, price float64) {
	e.store.ObservePrice(symbol, price)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
