package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChartSight/internal/domain/models"
	"ChartSight/internal/domain/repository"
	"ChartSight/internal/scoring"
	"ChartSight/pkg/cache"

	"github.com/redis/go-redis/v9"
)

const (
	keySeqAnalysis = "seq:analysis"
	keyProfileSet  = "profiles"
	historyAll     = "all"
)

// RedisRecordStore implements RecordStore on Redis. Records live under
// analysis:<id>, per-symbol history under a capped list history:<symbol>,
// learning and profile snapshots under learning:<pattern> / profile:<symbol>.
type RedisRecordStore struct {
	kv         *cache.RedisCache
	client     *redis.Client
	historyMax int
}

// NewRedisRecordStore creates a record store over an established Redis cache.
func NewRedisRecordStore(kv *cache.RedisCache, historyMax int) repository.RecordStore {
	if historyMax <= 0 {
		historyMax = 200
	}
	return &RedisRecordStore{
		kv:         kv,
		client:     kv.Client(),
		historyMax: historyMax,
	}
}

func (s *RedisRecordStore) SaveRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	seq, err := s.kv.Increment(ctx, keySeqAnalysis)
	if err != nil {
		return fmt.Errorf("next analysis id: %w", err)
	}
	rec.ID = fmt.Sprintf("an-%06d", seq)
	rec.Timestamp = time.Now().UTC()

	if err := s.kv.Set(ctx, recordKey(rec.ID), rec, 0); err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	for _, list := range []string{historyKey(rec.Symbol), historyKey(historyAll)} {
		key := s.raw(list)
		pipe := s.client.TxPipeline()
		pipe.LPush(ctx, key, rec.ID)
		pipe.LTrim(ctx, key, 0, int64(s.historyMax-1))
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("push history: %w", err)
		}
	}
	return nil
}

func (s *RedisRecordStore) GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	if err := s.kv.Get(ctx, recordKey(id), &rec); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

func (s *RedisRecordStore) UpdateRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	if rec.ID == "" {
		return models.ErrNotFound
	}
	if err := s.kv.Set(ctx, recordKey(rec.ID), rec, 0); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

func (s *RedisRecordStore) RecentRecords(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error) {
	if symbol == "" {
		symbol = historyAll
	}
	ids, err := s.client.LRange(ctx, s.raw(historyKey(symbol)), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("history range: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	byKey, err := cache.MGetTyped[models.AnalysisRecord](ctx, s.kv, keys...)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	records := make([]*models.AnalysisRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byKey[recordKey(id)]; ok {
			r := rec
			records = append(records, &r)
		}
	}
	return records, nil
}

func (s *RedisRecordStore) RecentOutcomes(ctx context.Context, symbol string, limit int) ([]models.HistoricalOutcome, error) {
	records, err := s.RecentRecords(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	outcomes := make([]models.HistoricalOutcome, len(records))
	for i, rec := range records {
		outcomes[i] = models.HistoricalOutcome{Pattern: rec.Pattern, Feedback: rec.Feedback}
	}
	return outcomes, nil
}

func (s *RedisRecordStore) SaveLearningState(ctx context.Context, pattern string, st models.PatternLearningState) error {
	if err := s.kv.Set(ctx, learningKey(pattern), st, 0); err != nil {
		return fmt.Errorf("save learning state: %w", err)
	}
	return nil
}

// LoadLearningStates fetches the snapshot for every pattern in the taxonomy
// in one round-trip. Patterns without feedback have no key and are skipped.
func (s *RedisRecordStore) LoadLearningStates(ctx context.Context) (map[string]models.PatternLearningState, error) {
	patterns := scoring.AllPatterns()
	keys := make([]string, len(patterns))
	for i, p := range patterns {
		keys[i] = learningKey(p)
	}

	byKey, err := cache.MGetTyped[models.PatternLearningState](ctx, s.kv, keys...)
	if err != nil {
		return nil, fmt.Errorf("load learning states: %w", err)
	}

	out := make(map[string]models.PatternLearningState, len(byKey))
	for _, p := range patterns {
		if st, ok := byKey[learningKey(p)]; ok {
			out[p] = st
		}
	}
	return out, nil
}

func (s *RedisRecordStore) SavePairProfile(ctx context.Context, symbol string, p models.TradingPairProfile) error {
	if err := s.kv.Set(ctx, profileKey(symbol), p, 0); err != nil {
		return fmt.Errorf("save pair profile: %w", err)
	}
	if err := s.client.SAdd(ctx, s.raw(keyProfileSet), symbol).Err(); err != nil {
		return fmt.Errorf("index pair profile: %w", err)
	}
	return nil
}

func (s *RedisRecordStore) LoadPairProfiles(ctx context.Context) (map[string]models.TradingPairProfile, error) {
	symbols, err := s.client.SMembers(ctx, s.raw(keyProfileSet)).Result()
	if err != nil {
		return nil, fmt.Errorf("list pair profiles: %w", err)
	}
	if len(symbols) == 0 {
		return map[string]models.TradingPairProfile{}, nil
	}

	keys := make([]string, len(symbols))
	for i, sym := range symbols {
		keys[i] = profileKey(sym)
	}
	byKey, err := cache.MGetTyped[models.TradingPairProfile](ctx, s.kv, keys...)
	if err != nil {
		return nil, fmt.Errorf("load pair profiles: %w", err)
	}

	out := make(map[string]models.TradingPairProfile, len(byKey))
	for _, sym := range symbols {
		if p, ok := byKey[profileKey(sym)]; ok {
			out[sym] = p
		}
	}
	return out, nil
}

func (s *RedisRecordStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// raw prefixes a key for direct client calls, matching what the cache layer
// does internally.
func (s *RedisRecordStore) raw(key string) string {
	return fmt.Sprintf("%s:%s", s.kv.Prefix(), key)
}

func recordKey(id string) string      { return "analysis:" + id }
func historyKey(sym string) string    { return "history:" + sym }
func learningKey(p string) string     { return "learning:" + p }
func profileKey(sym string) string    { return "profile:" + sym }
