package scoring

import (
	"math"
	"strings"
	"sync"
	"time"

	"ChartSight/internal/domain/models"
)

// LearningStore holds the two shared mutable tables: per-pattern learning
// state and per-pair profiles. All read-modify-write goes through the store
// mutex so concurrent feedback for the same pattern cannot lose updates.
// Entries are created lazily and never deleted.
type LearningStore struct {
	mu       sync.RWMutex
	learning map[string]*models.PatternLearningState
	profiles map[string]*models.TradingPairProfile
}

// NewLearningStore creates an empty store.
func NewLearningStore() *LearningStore {
	return &LearningStore{
		learning: make(map[string]*models.PatternLearningState),
		profiles: make(map[string]*models.TradingPairProfile),
	}
}

// Seed loads previously persisted snapshots, replacing current entries.
func (s *LearningStore) Seed(learning map[string]models.PatternLearningState, profiles map[string]models.TradingPairProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, st := range learning {
		cp := st
		s.learning[name] = &cp
	}
	for sym, p := range profiles {
		cp := p
		if cp.Patterns == nil {
			cp.Patterns = make(map[string]int)
		}
		s.profiles[sym] = &cp
	}
}

// LearningState returns a copy of the learning state for a pattern.
func (s *LearningStore) LearningState(pattern string) (models.PatternLearningState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.learning[pattern]
	if !ok {
		return models.PatternLearningState{}, false
	}
	return *st, true
}

// ApplyFeedback records one correct/incorrect signal for a pattern, creating
// the entry on first use. ConfidenceAdjustment moves by ±1 and is clamped to
// [-10, 10]. Returns a copy of the updated state.
func (s *LearningStore) ApplyFeedback(pattern string, correct bool) (models.PatternLearningState, error) {
	if strings.TrimSpace(pattern) == "" {
		return models.PatternLearningState{}, models.ErrInvalidPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.learning[pattern]
	if !ok {
		st = &models.PatternLearningState{}
		s.learning[pattern] = st
	}

	st.FeedbackCount++
	if correct {
		st.SuccessCount++
		st.ConfidenceAdjustment++
	} else {
		st.ConfidenceAdjustment--
	}
	if st.ConfidenceAdjustment > 10 {
		st.ConfidenceAdjustment = 10
	}
	if st.ConfidenceAdjustment < -10 {
		st.ConfidenceAdjustment = -10
	}
	st.LastUpdated = time.Now()

	return *st, nil
}

// Profile returns a copy of the pair profile for a symbol.
func (s *LearningStore) Profile(symbol string) (models.TradingPairProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[symbol]
	if !ok {
		return models.TradingPairProfile{}, false
	}
	return copyProfile(p), true
}

// RecordAnalysis updates the profile for symbol after an analysis produced
// pattern: price/volatility tracking plus the pattern occurrence count.
// price <= 0 means the observed price is unknown. Returns a copy.
func (s *LearningStore) RecordAnalysis(symbol string, price float64, pattern string) models.TradingPairProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, existed := s.profiles[symbol]
	if !existed {
		p = s.createProfile(symbol, price)
	} else {
		observe(p, price)
	}
	p.Patterns[pattern]++
	p.LastUpdated = time.Now()
	return copyProfile(p)
}

// ObservePrice folds a live price tick into the profile without touching
// pattern counts.
func (s *LearningStore) ObservePrice(symbol string, price float64) {
	if price <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, existed := s.profiles[symbol]
	if !existed {
		p = s.createProfile(symbol, price)
	} else {
		observe(p, price)
	}
	p.LastUpdated = time.Now()
}

// Snapshot returns copies of both tables for persistence.
func (s *LearningStore) Snapshot() (map[string]models.PatternLearningState, map[string]models.TradingPairProfile) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	learning := make(map[string]models.PatternLearningState, len(s.learning))
	for name, st := range s.learning {
		learning[name] = *st
	}
	profiles := make(map[string]models.TradingPairProfile, len(s.profiles))
	for sym, p := range s.profiles {
		profiles[sym] = copyProfile(p)
	}
	return learning, profiles
}

// createProfile seeds a new profile with the standard 0.02 volatility.
// Caller holds the write lock.
func (s *LearningStore) createProfile(symbol string, price float64) *models.TradingPairProfile {
	now := time.Now()
	seen := 0.0
	if price > 0 {
		seen = price
	}
	p := &models.TradingPairProfile{
		Patterns:      make(map[string]int),
		Volatility:    0.02,
		LastSeenPrice: seen,
		FirstSeenDate: now,
		LastUpdated:   now,
	}
	s.profiles[symbol] = p
	return p
}

// observe applies the exponential volatility smoothing and advances the last
// seen price. A zero last price skips the smoothing (division guard) but
// still records the price.
func observe(p *models.TradingPairProfile, price float64) {
	if price <= 0 {
		return
	}
	if p.LastSeenPrice > 0 {
		change := math.Abs(price/p.LastSeenPrice - 1)
		p.Volatility = p.Volatility*0.7 + change*0.3
	}
	p.LastSeenPrice = price
}

func copyProfile(p *models.TradingPairProfile) models.TradingPairProfile {
	cp := *p
	cp.Patterns = make(map[string]int, len(p.Patterns))
	for k, v := range p.Patterns {
		cp.Patterns[k] = v
	}
	return cp
}
