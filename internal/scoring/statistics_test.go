package scoring

import (
	"math/rand"
	"testing"

	"ChartSight/internal/domain/models"
)

func boolPtr(b bool) *bool { return &b }

func TestStatisticsRanges(t *testing.T) {
	store := NewLearningStore()
	engine := NewEngine(store, rand.New(rand.NewSource(1)))
	gen := rand.New(rand.NewSource(2))
	patterns := AllPatterns()

	for trial := 0; trial < 1000; trial++ {
		pattern := patterns[gen.Intn(len(patterns))]

		history := make([]models.HistoricalOutcome, gen.Intn(40))
		for i := range history {
			h := models.HistoricalOutcome{Pattern: patterns[gen.Intn(len(patterns))]}
			if gen.Intn(3) > 0 {
				h.Feedback = boolPtr(gen.Intn(2) == 0)
			}
			history[i] = h
		}
		if gen.Intn(2) == 0 {
			store.ApplyFeedback(pattern, gen.Intn(2) == 0)
		}

		stats := engine.ComputeStatistics(pattern, history)
		if stats.WinRate < 50 || stats.WinRate > 90 {
			t.Fatalf("trial %d: win rate %d out of range", trial, stats.WinRate)
		}
		if stats.SampleSize < 150 {
			t.Fatalf("trial %d: sample size %d below floor", trial, stats.SampleSize)
		}
	}
}

func TestStatisticsEmptyHistory(t *testing.T) {
	engine := NewEngine(NewLearningStore(), rand.New(rand.NewSource(7)))
	stats := engine.ComputeStatistics("Morning Star", nil)
	if stats.WinRate < 65 || stats.WinRate >= 85 {
		t.Fatalf("baseline win rate %d outside [65,85)", stats.WinRate)
	}
	if stats.SampleSize < 150 || stats.SampleSize >= 500 {
		t.Fatalf("baseline sample size %d outside [150,500)", stats.SampleSize)
	}
}

func TestStatisticsDeterministicWithSeed(t *testing.T) {
	store := NewLearningStore()
	for i := 0; i < 8; i++ {
		store.ApplyFeedback("Cup and Handle", i%4 != 0)
	}
	history := []models.HistoricalOutcome{
		{Pattern: "Cup and Handle", Feedback: boolPtr(true)},
		{Pattern: "Cup and Handle", Feedback: boolPtr(false)},
		{Pattern: "Bear Flag", Feedback: boolPtr(true)},
	}

	a := NewEngine(store, rand.New(rand.NewSource(42))).ComputeStatistics("Cup and Handle", history)
	b := NewEngine(store, rand.New(rand.NewSource(42))).ComputeStatistics("Cup and Handle", history)
	if a != b {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
}

func TestStatisticsBlendsLearnedRate(t *testing.T) {
	store := NewLearningStore()
	// 10 correct out of 10 pushes blend factor to 0.8 toward a 100% rate.
	for i := 0; i < 10; i++ {
		store.ApplyFeedback("Rising Wedge", true)
	}
	engine := NewEngine(store, rand.New(rand.NewSource(3)))
	stats := engine.ComputeStatistics("Rising Wedge", nil)
	// baseline is at most 84, so the blended value is at least 0.2*65+0.8*100=93,
	// clamped down to 90.
	if stats.WinRate != 90 {
		t.Fatalf("expected clamped win rate 90, got %d", stats.WinRate)
	}
	if stats.SampleSize < 160 {
		t.Fatalf("expected feedback folded into sample size, got %d", stats.SampleSize)
	}
}
