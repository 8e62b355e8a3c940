package models

import "time"

// PatternLearningState accumulates user feedback for one pattern name,
// independent of trading pair. Created lazily on first feedback; never deleted.
// Invariant: 0 <= SuccessCount <= FeedbackCount, ConfidenceAdjustment in [-10,10].
type PatternLearningState struct {
	ConfidenceAdjustment int       `json:"confidence_adjustment"`
	FeedbackCount        int       `json:"feedback_count"`
	SuccessCount         int       `json:"success_count"`
	LastUpdated          time.Time `json:"last_updated"`
}

// SuccessRate returns SuccessCount/FeedbackCount, or 0 when no feedback exists.
func (s PatternLearningState) SuccessRate() float64 {
	if s.FeedbackCount == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.FeedbackCount)
}

// TradingPairProfile accumulates per-symbol statistics: observed price,
// exponentially-smoothed volatility, and how often each pattern was called.
type TradingPairProfile struct {
	Patterns      map[string]int `json:"patterns"`
	Volatility    float64        `json:"volatility"`
	LastSeenPrice float64        `json:"last_seen_price"`
	FirstSeenDate time.Time      `json:"first_seen_date"`
	LastUpdated   time.Time      `json:"last_updated"`
}
