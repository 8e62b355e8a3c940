package scoring

import (
	"math"

	"ChartSight/internal/domain/models"
)

// Statistics is the display win-rate and sample-size pair for a pattern.
type Statistics struct {
	WinRate    int
	SampleSize int
}

// ComputeStatistics blends a randomized baseline with the accumulated
// learning state and the recent feedback history for pattern. WinRate lands
// in [50, 90] and SampleSize is at least 150. Read-only against the store;
// only the baseline draw consumes randomness, so identical inputs with a
// seeded source produce identical output.
func (e *Engine) ComputeStatistics(pattern string, history []models.HistoricalOutcome) Statistics {
	winRate := float64(65 + e.intn(20))
	sampleSize := 150 + e.intn(350)

	if st, ok := e.store.LearningState(pattern); ok && st.FeedbackCount > 0 {
		learnedRate := st.SuccessRate() * 100
		blend := math.Min(float64(st.FeedbackCount)/10, 0.8)
		winRate = math.Round(winRate*(1-blend) + learnedRate*blend)
		sampleSize += st.FeedbackCount
	}

	correct, total := 0, 0
	for _, h := range history {
		if h.Pattern != pattern || h.Feedback == nil {
			continue
		}
		total++
		if *h.Feedback {
			correct++
		}
	}
	if total > 0 {
		historyRate := float64(correct) / float64(total) * 100
		blend := math.Min(float64(total)/20, 0.6)
		winRate = winRate*(1-blend) + historyRate*blend
		sampleSize += total
	}

	return Statistics{
		WinRate:    clampInt(int(math.Round(winRate)), 50, 90),
		SampleSize: sampleSize,
	}
}
