package usecase

import (
	"context"
	"fmt"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	"ChartSight/pkg/queue"
)

// FeedbackArchiveJob drains queued feedback events into the archive.
type FeedbackArchiveJob struct {
	archive drepo.Archive
}

// NewFeedbackArchiveJob creates a new FeedbackArchiveJob instance.
func NewFeedbackArchiveJob(archive drepo.Archive) queue.Job {
	return &FeedbackArchiveJob{archive: archive}
}

func (j *FeedbackArchiveJob) Name() string {
	return "feedback-archive"
}

func (j *FeedbackArchiveJob) Type() string {
	return FeedbackTopic
}

func (j *FeedbackArchiveJob) Handle(ctx context.Context, payload interface{}) error {
	ev, err := queue.ParsePayload[models.FeedbackEvent](payload)
	if err != nil {
		return fmt.Errorf("feedback payload: %w", err)
	}
	return j.archive.StoreFeedback(ctx, ev)
}
