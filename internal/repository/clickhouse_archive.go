package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ChartSight/internal/domain/models"
	"ChartSight/internal/domain/repository"
)

// ClickHouseArchive implements Archive for ClickHouse. Outcomes and feedback
// are append-only rows; queries serve the outcomes API.
type ClickHouseArchive struct {
	db       *sql.DB
	database string
}

// NewClickHouseArchive creates a ClickHouse archive.
func NewClickHouseArchive(db *sql.DB, database string) repository.Archive {
	if database == "" {
		database = "chartsight"
	}
	return &ClickHouseArchive{db: db, database: database}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, a.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.analysis_outcomes (
			id String,
			symbol LowCardinality(String),
			pattern LowCardinality(String),
			prediction LowCardinality(String),
			confidence UInt8,
			win_rate UInt8,
			sample_size UInt32,
			source LowCardinality(String),
			ts DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (symbol, ts)`, a.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.pattern_feedback (
			record_id String,
			symbol LowCardinality(String),
			pattern LowCardinality(String),
			correct UInt8,
			ts DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (pattern, ts)`, a.database),
	}
	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("archive schema: %w", err)
		}
	}
	return nil
}

func (a *ClickHouseArchive) StoreOutcome(ctx context.Context, ev *models.OutcomeEvent) error {
	q := fmt.Sprintf(`INSERT INTO %s.analysis_outcomes
		(id, symbol, pattern, prediction, confidence, win_rate, sample_size, source, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, a.database)
	_, err := a.db.ExecContext(ctx, q,
		ev.ID,
		ev.Symbol,
		ev.Pattern,
		ev.Prediction,
		uint8(ev.Confidence),
		uint8(ev.WinRate),
		uint32(ev.SampleSize),
		ev.Source,
		ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("store outcome: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) StoreFeedback(ctx context.Context, ev *models.FeedbackEvent) error {
	correct := uint8(0)
	if ev.Correct {
		correct = 1
	}
	q := fmt.Sprintf(`INSERT INTO %s.pattern_feedback
		(record_id, symbol, pattern, correct, ts)
		VALUES (?, ?, ?, ?, ?)`, a.database)
	if _, err := a.db.ExecContext(ctx, q, ev.RecordID, ev.Symbol, ev.Pattern, correct, ev.Timestamp); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) QueryOutcomes(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.OutcomeEvent, error) {
	var (
		conds = []string{"ts >= ?", "ts <= ?"}
		args  = []interface{}{from, to}
	)
	if symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, symbol)
	}
	args = append(args, limit)

	q := fmt.Sprintf(`SELECT id, symbol, pattern, prediction, confidence, win_rate, sample_size, source, ts
		FROM %s.analysis_outcomes
		WHERE %s
		ORDER BY ts DESC
		LIMIT ?`, a.database, strings.Join(conds, " AND "))

	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []models.OutcomeEvent
	for rows.Next() {
		var (
			ev         models.OutcomeEvent
			confidence uint8
			winRate    uint8
			sampleSize uint32
		)
		if err := rows.Scan(&ev.ID, &ev.Symbol, &ev.Pattern, &ev.Prediction, &confidence, &winRate, &sampleSize, &ev.Source, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		ev.Confidence = int(confidence)
		ev.WinRate = int(winRate)
		ev.SampleSize = int(sampleSize)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}
