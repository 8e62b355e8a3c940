package scoring

// The fixed chart-pattern taxonomy: 25 patterns across 5 categories. The
// selector draws a category uniformly, then weights the patterns inside it.

const (
	CategoryContinuation  = "continuation"
	CategoryReversal      = "reversal"
	CategoryConsolidation = "consolidation"
	CategoryBreakout      = "breakout"
	CategoryCandlestick   = "candlestick"
)

// Categories in draw order.
var Categories = []string{
	CategoryContinuation,
	CategoryReversal,
	CategoryConsolidation,
	CategoryBreakout,
	CategoryCandlestick,
}

var patternsByCategory = map[string][]string{
	CategoryContinuation: {
		"Bull Flag",
		"Bear Flag",
		"Ascending Triangle",
		"Descending Triangle",
		"Cup and Handle",
	},
	CategoryReversal: {
		"Head and Shoulders",
		"Inverse Head and Shoulders",
		"Double Top",
		"Double Bottom",
		"Rising Wedge",
	},
	CategoryConsolidation: {
		"Symmetrical Triangle",
		"Rectangle Range",
		"Bollinger Band Squeeze",
		"Pennant",
		"Falling Wedge",
	},
	CategoryBreakout: {
		"Resistance Breakout",
		"Support Breakdown",
		"Channel Breakout",
		"Triangle Breakout",
		"Volume Breakout",
	},
	CategoryCandlestick: {
		"Bullish Engulfing Pattern",
		"Bearish Engulfing Pattern",
		"Hammer Candlestick",
		"Shooting Star",
		"Morning Star",
	},
}

// PatternsIn returns the pattern names of a category (nil for unknown).
func PatternsIn(category string) []string {
	return patternsByCategory[category]
}

// AllPatterns returns every pattern name in category order.
func AllPatterns() []string {
	out := make([]string, 0, 25)
	for _, c := range Categories {
		out = append(out, patternsByCategory[c]...)
	}
	return out
}

// IsKnownPattern reports whether name belongs to the taxonomy.
func IsKnownPattern(name string) bool {
	for _, c := range Categories {
		for _, p := range patternsByCategory[c] {
			if p == name {
				return true
			}
		}
	}
	return false
}
