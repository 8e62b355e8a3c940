package explain

import (
	"strings"
	"testing"

	"ChartSight/internal/domain/models"
)

func TestComposeDeterministic(t *testing.T) {
	rec := &models.AnalysisRecord{
		Symbol:     "BTC/USD",
		Pattern:    "Bull Flag",
		Prediction: models.PredictionBullish,
		Confidence: 88,
		WinRate:    72,
		SampleSize: 310,
		Entry:      61000,
		StopLoss:   60100,
		TakeProfit: 62800,
		Timeframe:  "4h",
		Indicators: []string{"RSI", "MACD"},
	}

	a := Compose(rec)
	b := Compose(rec)
	if a != b {
		t.Fatalf("explanation not deterministic")
	}
	for _, want := range []string{"Bull Flag", "BTC/USD", "4h", "high conviction", "72%", "310", "RSI, MACD", "61000.00"} {
		if !strings.Contains(a, want) {
			t.Fatalf("explanation missing %q: %s", want, a)
		}
	}
}

func TestComposeConfidenceBands(t *testing.T) {
	rec := &models.AnalysisRecord{
		Symbol:     "ETH/USD",
		Pattern:    "Double Top",
		Prediction: models.PredictionBearish,
		Confidence: 55,
		WinRate:    60,
		SampleSize: 200,
	}
	if got := Compose(rec); !strings.Contains(got, "conviction is low") {
		t.Fatalf("expected low band phrasing: %s", got)
	}

	rec.Confidence = 75
	if got := Compose(rec); !strings.Contains(got, "moderate conviction") {
		t.Fatalf("expected moderate band phrasing: %s", got)
	}
}
