package scoring

import (
	"math"

	"ChartSight/internal/domain/models"
)

// weightFloor keeps a heavily penalized pattern selectable. A strongly
// negative confidence adjustment can push a raw weight below zero, which
// would corrupt the cumulative draw.
const weightFloor = 0.01

// Selection is the outcome of one pattern draw.
type Selection struct {
	Pattern    string
	Prediction models.Prediction
	Confidence int
}

// SelectPattern picks a pattern, a direction and a confidence score for the
// symbol. A category is drawn uniformly, then the patterns inside it are
// weighted by learning state, pair affinity and recent confirmed history.
// currentPrice <= 0 means no price is known for this call. Read-only against
// the store.
func (e *Engine) SelectPattern(symbol string, currentPrice float64, history []models.HistoricalOutcome) Selection {
	category := Categories[e.intn(len(Categories))]
	names := PatternsIn(category)

	weights := make([]float64, len(names))
	total := 0.0
	for i, name := range names {
		w := 1.0

		if st, ok := e.store.LearningState(name); ok {
			w += float64(st.ConfidenceAdjustment)
			if st.FeedbackCount > 0 {
				w *= 0.5 + st.SuccessRate()
			}
		}

		if profile, ok := e.store.Profile(symbol); ok {
			if count := profile.Patterns[name]; count > 0 {
				w *= 1 + float64(count)/10
			}
		}

		confirmed := 0
		for _, h := range history {
			if h.Pattern == name && h.Feedback != nil && *h.Feedback {
				confirmed++
			}
		}
		if confirmed > 0 {
			w *= 1 + float64(confirmed)/10
		}

		if w < weightFloor {
			w = weightFloor
		}
		weights[i] = w
		total += w
	}

	draw := e.float64() * total
	pattern := names[len(names)-1]
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw <= cumulative {
			pattern = names[i]
			break
		}
	}

	prediction, priceBonus := e.direction(symbol, currentPrice)
	confidence := 60 + e.intn(30)
	confidence += priceBonus

	if profile, ok := e.store.Profile(symbol); ok {
		confidence -= int(math.Min(profile.Volatility*10, 15))
	}

	if st, ok := e.store.LearningState(pattern); ok {
		confidence += st.ConfidenceAdjustment
		if st.FeedbackCount > 0 {
			confidence += int((st.SuccessRate() - 0.5) * 20)
		}
	}

	return Selection{
		Pattern:    pattern,
		Prediction: prediction,
		Confidence: clampInt(confidence, 50, 95),
	}
}

// direction derives bullish/bearish from the price move against the last
// seen price when both are known, with a confidence bonus proportional to
// the move. Otherwise the call falls back to a coin flip.
func (e *Engine) direction(symbol string, currentPrice float64) (models.Prediction, int) {
	if currentPrice > 0 {
		if profile, ok := e.store.Profile(symbol); ok && profile.LastSeenPrice > 0 {
			change := currentPrice/profile.LastSeenPrice - 1
			bonus := int(math.Min(math.Abs(change)*100, 10))
			if currentPrice > profile.LastSeenPrice {
				return models.PredictionBullish, bonus
			}
			return models.PredictionBearish, bonus
		}
	}
	if e.intn(2) == 0 {
		return models.PredictionBullish, 0
	}
	return models.PredictionBearish, 0
}

// AdjustConfidence applies the learned adjustment for pattern to an
// externally produced confidence and clamps it to the output range. Used
// when the pattern came from the vision model instead of the selector.
func (e *Engine) AdjustConfidence(pattern string, confidence int) int {
	if st, ok := e.store.LearningState(pattern); ok {
		confidence += st.ConfidenceAdjustment
		if st.FeedbackCount > 0 {
			confidence += int((st.SuccessRate() - 0.5) * 20)
		}
	}
	return clampInt(confidence, 50, 95)
}
