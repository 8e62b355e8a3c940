package vision

import (
	"fmt"
	"strings"

	"ChartSight/internal/scoring"
)

// buildPrompt asks the model for a strict JSON reply using only taxonomy
// pattern names.
func buildPrompt(symbol string) string {
	var b strings.Builder
	b.WriteString("You are a technical analyst. Classify the chart pattern in the attached trading chart image")
	if symbol != "" {
		fmt.Fprintf(&b, " for %s", symbol)
	}
	b.WriteString(".\n\nThe pattern MUST be exactly one of:\n")
	for _, name := range scoring.AllPatterns() {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString(`
Reply with a single JSON object and nothing else:
{
  "pair": "<trading pair, e.g. BTC/USD>",
  "pattern": "<one of the listed patterns>",
  "prediction": "bullish" or "bearish",
  "confidence": <integer 50-95>,
  "entry": <suggested entry price or 0>,
  "stop_loss": <suggested stop loss or 0>,
  "take_profit": <suggested take profit or 0>,
  "timeframe": "<chart timeframe, e.g. 4h>",
  "indicators": ["<visible indicators>"]
}`)
	return b.String()
}
