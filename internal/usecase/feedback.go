package usecase

import (
	"context"
	"fmt"
	"time"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	"ChartSight/internal/scoring"
	"ChartSight/pkg/cache"
	applogger "ChartSight/pkg/logger"
	"ChartSight/pkg/queue"
)

// FeedbackTopic is the queue message type for archiving feedback events.
const FeedbackTopic = "feedback.archive"

// Feedback applies a right/wrong signal to an analysis record: the record is
// marked exactly once, the pattern's learning state is nudged, and the event
// is queued for archival.
type Feedback struct {
	logger  *applogger.Logger
	engine  *scoring.Engine
	store   drepo.RecordStore
	locks   cache.Service
	queue   queue.QueueService
	metrics drepo.Metrics
}

// NewFeedback creates a new Feedback instance.
func NewFeedback(
	lgr *applogger.Logger,
	engine *scoring.Engine,
	store drepo.RecordStore,
	locks cache.Service,
	q queue.QueueService,
	metrics drepo.Metrics,
) *Feedback {
	return &Feedback{
		logger:  lgr,
		engine:  engine,
		store:   store,
		locks:   locks,
		queue:   q,
		metrics: metrics,
	}
}

// Submit records feedback for the analysis record id. Returns ErrNotFound for
// unknown ids and ErrFeedbackRecorded when the record already has feedback.
func (f *Feedback) Submit(ctx context.Context, id string, correct bool) (*models.AnalysisRecord, error) {
	// Serialize concurrent submissions for the same record.
	locked, err := f.locks.TryLock(ctx, "lock:feedback:"+id, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("feedback lock: %w", err)
	}
	if !locked {
		return nil, models.ErrFeedbackRecorded
	}
	defer func() {
		if err := f.locks.Unlock(ctx, "lock:feedback:" + id); err != nil {
			f.logger.Warn("feedback unlock failed", applogger.Error(err))
		}
	}()

	rec, err := f.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Feedback != nil {
		return nil, models.ErrFeedbackRecorded
	}

	st, err := f.engine.RecordFeedback(rec.Pattern, correct)
	if err != nil {
		return nil, err
	}

	rec.Feedback = &correct
	if err := f.store.UpdateRecord(ctx, rec); err != nil {
		f.metrics.RecordError("update_record")
		return nil, fmt.Errorf("mark feedback: %w", err)
	}
	if err := f.store.SaveLearningState(ctx, rec.Pattern, st); err != nil {
		f.logger.Warn("learning snapshot failed",
			applogger.String("pattern", rec.Pattern),
			applogger.Error(err))
	}

	f.enqueueArchive(ctx, rec, correct)

	result := "incorrect"
	if correct {
		result = "correct"
	}
	f.metrics.RecordFeedback(result)
	return rec, nil
}

func (f *Feedback) enqueueArchive(ctx context.Context, rec *models.AnalysisRecord, correct bool) {
	if f.queue == nil {
		return
	}
	ev := models.FeedbackEvent{
		RecordID:  rec.ID,
		Symbol:    rec.Symbol,
		Pattern:   rec.Pattern,
		Correct:   correct,
		Timestamp: time.Now().UTC(),
	}
	if err := f.queue.PublishMessage(ctx, FeedbackTopic, ev); err != nil {
		f.logger.Warn("feedback archive enqueue failed",
			applogger.String("id", rec.ID),
			applogger.Error(err))
	}
}
