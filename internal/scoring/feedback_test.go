package scoring

import (
	"sync"
	"testing"

	"ChartSight/internal/domain/models"
)

func TestFeedbackAllCorrect(t *testing.T) {
	store := NewLearningStore()
	for i := 0; i < 15; i++ {
		if _, err := store.ApplyFeedback("Bull Flag", true); err != nil {
			t.Fatalf("apply feedback: %v", err)
		}
	}
	st, ok := store.LearningState("Bull Flag")
	if !ok {
		t.Fatalf("expected learning state")
	}
	if st.FeedbackCount != 15 || st.SuccessCount != 15 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.ConfidenceAdjustment != 10 {
		t.Fatalf("expected adjustment clamped to 10, got %d", st.ConfidenceAdjustment)
	}
}

func TestFeedbackAllIncorrect(t *testing.T) {
	store := NewLearningStore()
	for i := 0; i < 15; i++ {
		if _, err := store.ApplyFeedback("Double Top", false); err != nil {
			t.Fatalf("apply feedback: %v", err)
		}
	}
	st, _ := store.LearningState("Double Top")
	if st.SuccessCount != 0 {
		t.Fatalf("expected zero successes, got %d", st.SuccessCount)
	}
	if st.ConfidenceAdjustment != -10 {
		t.Fatalf("expected adjustment clamped to -10, got %d", st.ConfidenceAdjustment)
	}
}

func TestFeedbackMixedScenario(t *testing.T) {
	store := NewLearningStore()
	for i := 0; i < 5; i++ {
		store.ApplyFeedback("Hammer Candlestick", true)
	}
	store.ApplyFeedback("Hammer Candlestick", false)

	st, _ := store.LearningState("Hammer Candlestick")
	if st.FeedbackCount != 6 || st.SuccessCount != 5 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.ConfidenceAdjustment != 4 {
		t.Fatalf("expected adjustment 4, got %d", st.ConfidenceAdjustment)
	}
}

func TestFeedbackEmptyPattern(t *testing.T) {
	store := NewLearningStore()
	if _, err := store.ApplyFeedback("  ", true); err != models.ErrInvalidPattern {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
	learning, _ := store.Snapshot()
	if len(learning) != 0 {
		t.Fatalf("expected no entries, got %d", len(learning))
	}
}

func TestFeedbackConcurrentSamePattern(t *testing.T) {
	store := NewLearningStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(correct bool) {
			defer wg.Done()
			store.ApplyFeedback("Pennant", correct)
		}(i%2 == 0)
	}
	wg.Wait()

	st, _ := store.LearningState("Pennant")
	if st.FeedbackCount != 100 {
		t.Fatalf("lost updates: feedback count %d", st.FeedbackCount)
	}
	if st.SuccessCount != 50 {
		t.Fatalf("lost updates: success count %d", st.SuccessCount)
	}
}
