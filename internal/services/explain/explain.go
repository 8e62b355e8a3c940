package explain

import (
	"fmt"
	"strings"

	"ChartSight/internal/domain/models"
)

// Compose builds the explanation text for an analysis record. Pure formatting
// over the record fields; same record, same text.
func Compose(rec *models.AnalysisRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Detected a %s on %s", rec.Pattern, rec.Symbol)
	if rec.Timeframe != "" {
		fmt.Fprintf(&b, " (%s chart)", rec.Timeframe)
	}
	b.WriteString(". ")

	switch {
	case rec.Confidence >= 85:
		fmt.Fprintf(&b, "The structure is well formed and signals a %s move with high conviction (%d%%). ", rec.Prediction, rec.Confidence)
	case rec.Confidence >= 70:
		fmt.Fprintf(&b, "The setup leans %s with moderate conviction (%d%%). ", rec.Prediction, rec.Confidence)
	default:
		fmt.Fprintf(&b, "The setup tentatively favors a %s continuation, though conviction is low (%d%%). ", rec.Prediction, rec.Confidence)
	}

	fmt.Fprintf(&b, "Historically this pattern has resolved in the predicted direction about %d%% of the time across %d samples.", rec.WinRate, rec.SampleSize)

	if len(rec.Indicators) > 0 {
		fmt.Fprintf(&b, " Supporting signals: %s.", strings.Join(rec.Indicators, ", "))
	}
	if rec.Entry > 0 && rec.StopLoss > 0 && rec.TakeProfit > 0 {
		fmt.Fprintf(&b, " Suggested levels: entry %s, stop %s, target %s.",
			formatPrice(rec.Entry), formatPrice(rec.StopLoss), formatPrice(rec.TakeProfit))
	}

	return b.String()
}

func formatPrice(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
