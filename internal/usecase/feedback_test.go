package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ChartSight/internal/domain/models"
	"ChartSight/pkg/cache"
)

// stubQueue records published messages.
type stubQueue struct {
	mu       sync.Mutex
	messages []string
}

func (q *stubQueue) PublishMessage(_ context.Context, msgType string, _ interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msgType)
	return nil
}

func seedRecord(t *testing.T, store *memStore, pattern string) *models.AnalysisRecord {
	t.Helper()
	rec := &models.AnalysisRecord{
		Symbol:     "BTC/USDT",
		Pattern:    pattern,
		Prediction: models.PredictionBullish,
		Confidence: 72,
	}
	if err := store.SaveRecord(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func TestSubmitFeedbackUnknownRecord(t *testing.T) {
	f := NewFeedback(testLogger(t), testEngine(1), newMemStore(), cache.NewMemoryCache(), &stubQueue{}, newFakeMetrics())

	_, err := f.Submit(context.Background(), "an-999999", true)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitFeedbackSuccess(t *testing.T) {
	store := newMemStore()
	engine := testEngine(1)
	q := &stubQueue{}
	m := newFakeMetrics()
	f := NewFeedback(testLogger(t), engine, store, cache.NewMemoryCache(), q, m)

	rec := seedRecord(t, store, "Hammer Candlestick")

	out, err := f.Submit(context.Background(), rec.ID, true)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Feedback == nil || !*out.Feedback {
		t.Fatal("record not marked correct")
	}

	stored, err := store.GetRecord(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if stored.Feedback == nil || !*stored.Feedback {
		t.Fatal("persisted record not marked")
	}

	st, ok := engine.Store().LearningState("Hammer Candlestick")
	if !ok {
		t.Fatal("learning state missing")
	}
	if st.FeedbackCount != 1 || st.SuccessCount != 1 || st.ConfidenceAdjustment != 1 {
		t.Fatalf("learning state = %+v", st)
	}

	snap, ok := store.learning["Hammer Candlestick"]
	if !ok {
		t.Fatal("learning snapshot not persisted")
	}
	if snap.FeedbackCount != 1 {
		t.Fatalf("persisted feedback count = %d, want 1", snap.FeedbackCount)
	}

	if len(q.messages) != 1 || q.messages[0] != FeedbackTopic {
		t.Fatalf("queued messages = %v", q.messages)
	}
	if m.feedback["correct"] != 1 {
		t.Fatalf("correct feedback count = %d, want 1", m.feedback["correct"])
	}
}

func TestSubmitFeedbackDuplicate(t *testing.T) {
	store := newMemStore()
	f := NewFeedback(testLogger(t), testEngine(1), store, cache.NewMemoryCache(), &stubQueue{}, newFakeMetrics())

	rec := seedRecord(t, store, "Doji")

	if _, err := f.Submit(context.Background(), rec.ID, false); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := f.Submit(context.Background(), rec.ID, true)
	if !errors.Is(err, models.ErrFeedbackRecorded) {
		t.Fatalf("err = %v, want ErrFeedbackRecorded", err)
	}
}

func TestSubmitFeedbackLockHeld(t *testing.T) {
	store := newMemStore()
	locks := cache.NewMemoryCache()
	f := NewFeedback(testLogger(t), testEngine(1), store, locks, &stubQueue{}, newFakeMetrics())

	rec := seedRecord(t, store, "Doji")

	// Another submission in flight holds the lock.
	locked, err := locks.TryLock(context.Background(), "lock:feedback:"+rec.ID, 5*time.Second)
	if err != nil || !locked {
		t.Fatalf("pre-lock: locked=%v err=%v", locked, err)
	}

	_, err = f.Submit(context.Background(), rec.ID, true)
	if !errors.Is(err, models.ErrFeedbackRecorded) {
		t.Fatalf("err = %v, want ErrFeedbackRecorded", err)
	}
}
