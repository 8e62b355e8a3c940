package usecase

import (
	"context"
	"fmt"
	"time"

	"ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	icache "ChartSight/internal/service/cache"
)

// History serves recent analysis records with a short in-process cache in
// front of Redis.
type History struct {
	store    drepo.RecordStore
	cache    *icache.TTLCache
	cacheTTL time.Duration
}

// NewHistory creates a new History instance.
func NewHistory(store drepo.RecordStore, cacheTTL time.Duration) *History {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	return &History{
		store:    store,
		cache:    icache.NewTTLCache(),
		cacheTTL: cacheTTL,
	}
}

// Recent returns up to limit most recent records, newest first. An empty
// symbol returns the cross-symbol history.
func (h *History) Recent(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error) {
	key := fmt.Sprintf("history:%s:%d", symbol, limit)
	if v, ok := h.cache.Get(key); ok {
		if records, ok := v.([]*models.AnalysisRecord); ok {
			return records, nil
		}
	}

	records, err := h.store.RecentRecords(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	h.cache.Set(key, records, h.cacheTTL)
	return records, nil
}

// Outcomes serves archived outcome events from the analytical store.
type Outcomes struct {
	archive drepo.Archive
}

// NewOutcomes creates a new Outcomes instance.
func NewOutcomes(archive drepo.Archive) *Outcomes {
	return &Outcomes{archive: archive}
}

// Query returns archived outcomes in [from, to], newest first.
func (o *Outcomes) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.OutcomeEvent, error) {
	return o.archive.QueryOutcomes(ctx, symbol, from, to, limit)
}
