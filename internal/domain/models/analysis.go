package models

import "time"

// Prediction is the direction call for the next candle.
type Prediction string

const (
	PredictionBullish Prediction = "bullish"
	PredictionBearish Prediction = "bearish"
)

// ChartAnalysis is what the vision model (or the local simulator) extracts
// from a chart image: the classified pattern plus nominal trading details.
type ChartAnalysis struct {
	Pair       string
	Pattern    string
	Prediction Prediction
	Confidence int
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	Timeframe  string
	Indicators []string
}

// AnalysisRecord is the persisted result of one analysis call. The record
// store assigns ID and Timestamp; Feedback starts nil and is set exactly once.
type AnalysisRecord struct {
	ID          string     `json:"id"`
	Symbol      string     `json:"symbol"`
	Pattern     string     `json:"pattern"`
	Prediction  Prediction `json:"prediction"`
	Confidence  int        `json:"confidence"`
	WinRate     int        `json:"win_rate"`
	SampleSize  int        `json:"sample_size"`
	Entry       float64    `json:"entry,omitempty"`
	StopLoss    float64    `json:"stop_loss,omitempty"`
	TakeProfit  float64    `json:"take_profit,omitempty"`
	Timeframe   string     `json:"timeframe,omitempty"`
	Indicators  []string   `json:"indicators,omitempty"`
	Explanation string     `json:"explanation"`
	Source      string     `json:"source"` // "vision" or "simulated"
	Timestamp   time.Time  `json:"timestamp"`
	Feedback    *bool      `json:"feedback"`
}

// HistoricalOutcome is the slice of past analyses the scorer cares about:
// which pattern was called and whether the user confirmed it.
type HistoricalOutcome struct {
	Pattern  string `json:"pattern"`
	Feedback *bool  `json:"feedback"`
}

// OutcomeEvent is the wire form of an analysis outcome on the event pipeline.
type OutcomeEvent struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Pattern    string    `json:"pattern"`
	Prediction string    `json:"prediction"`
	Confidence int       `json:"confidence"`
	WinRate    int       `json:"win_rate"`
	SampleSize int       `json:"sample_size"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"ts"`
}

// FeedbackEvent is the wire form of a user feedback on the archive queue.
type FeedbackEvent struct {
	RecordID  string    `json:"record_id"`
	Symbol    string    `json:"symbol"`
	Pattern   string    `json:"pattern"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"ts"`
}

// PriceTick is one observed trade price from the live price stream.
type PriceTick struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp int64 // unix seconds
}
