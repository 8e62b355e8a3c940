package scoring

import (
	"math"
	"testing"
)

func TestProfileCreatedOnFirstAnalysis(t *testing.T) {
	store := NewLearningStore()
	p := store.RecordAnalysis("BTC/USD", 61000, "Bollinger Band Squeeze")

	if p.LastSeenPrice != 61000 {
		t.Fatalf("unexpected last seen price %v", p.LastSeenPrice)
	}
	if p.Volatility != 0.02 {
		t.Fatalf("expected seeded volatility 0.02, got %v", p.Volatility)
	}
	if p.Patterns["Bollinger Band Squeeze"] != 1 {
		t.Fatalf("unexpected pattern counts %v", p.Patterns)
	}
}

func TestProfileVolatilitySmoothing(t *testing.T) {
	store := NewLearningStore()
	store.RecordAnalysis("BTC/USD", 61000, "Bollinger Band Squeeze")
	p := store.RecordAnalysis("BTC/USD", 62200, "Bollinger Band Squeeze")

	want := 0.02*0.7 + math.Abs(62200.0/61000.0-1)*0.3
	if math.Abs(p.Volatility-want) > 1e-12 {
		t.Fatalf("volatility %v, want %v", p.Volatility, want)
	}
	if p.LastSeenPrice != 62200 {
		t.Fatalf("unexpected last seen price %v", p.LastSeenPrice)
	}
	if p.Patterns["Bollinger Band Squeeze"] != 2 {
		t.Fatalf("unexpected pattern counts %v", p.Patterns)
	}
}

func TestProfileZeroPriceGuard(t *testing.T) {
	store := NewLearningStore()
	store.RecordAnalysis("XRP/USD", 0, "Pennant")
	p, _ := store.Profile("XRP/USD")
	if p.LastSeenPrice != 0 {
		t.Fatalf("expected unknown price, got %v", p.LastSeenPrice)
	}

	// First real price must not divide by the zero last price.
	p = store.RecordAnalysis("XRP/USD", 0.52, "Pennant")
	if p.Volatility != 0.02 {
		t.Fatalf("expected volatility untouched, got %v", p.Volatility)
	}
	if p.LastSeenPrice != 0.52 {
		t.Fatalf("unexpected last seen price %v", p.LastSeenPrice)
	}
}

func TestProfileCopyIsolation(t *testing.T) {
	store := NewLearningStore()
	p := store.RecordAnalysis("BTC/USD", 61000, "Bull Flag")
	p.Patterns["Bull Flag"] = 99

	fresh, _ := store.Profile("BTC/USD")
	if fresh.Patterns["Bull Flag"] != 1 {
		t.Fatalf("returned profile shares internal map")
	}
}

func TestSnapshotAndSeedRoundTrip(t *testing.T) {
	store := NewLearningStore()
	store.ApplyFeedback("Hammer Candlestick", true)
	store.RecordAnalysis("BTC/USD", 61000, "Hammer Candlestick")

	learning, profiles := store.Snapshot()

	restored := NewLearningStore()
	restored.Seed(learning, profiles)

	st, ok := restored.LearningState("Hammer Candlestick")
	if !ok || st.FeedbackCount != 1 || st.SuccessCount != 1 {
		t.Fatalf("learning state not restored: %+v", st)
	}
	p, ok := restored.Profile("BTC/USD")
	if !ok || p.LastSeenPrice != 61000 || p.Patterns["Hammer Candlestick"] != 1 {
		t.Fatalf("profile not restored: %+v", p)
	}
}
