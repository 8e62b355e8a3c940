package vision

import (
	"math/rand"
	"sync"
	"time"

	"ChartSight/internal/domain/models"
)

var simulatedPairs = []string{
	"BTC/USD", "ETH/USD", "SOL/USD", "XRP/USD", "EUR/USD", "GBP/USD",
}

var simulatedTimeframes = []string{"15m", "1h", "4h", "1d"}

var simulatedIndicators = []string{
	"RSI", "MACD", "Bollinger Bands", "EMA 50", "EMA 200", "Volume Profile", "Stochastic",
}

var basePrices = map[string]float64{
	"BTC/USD": 61000,
	"ETH/USD": 3200,
	"SOL/USD": 145,
	"XRP/USD": 0.52,
	"EUR/USD": 1.08,
	"GBP/USD": 1.27,
}

// Simulator generates nominal trading metadata when no vision model is
// available. Pattern, prediction and confidence are the scorer's job; the
// simulator only fills in the extraction fields a vision model would supply.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulator creates a simulator. rnd may be nil.
func NewSimulator(rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rnd: rnd}
}

// Extract produces simulated trading details for symbol. currentPrice, when
// known, anchors the entry; otherwise a nominal base price is used.
func (s *Simulator) Extract(symbol string, currentPrice float64, bullish bool) *models.ChartAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := symbol
	if pair == "" {
		pair = simulatedPairs[s.rnd.Intn(len(simulatedPairs))]
	}

	entry := currentPrice
	if entry <= 0 {
		entry = basePrices[pair]
		if entry <= 0 {
			entry = 100
		}
		// nudge off the nominal base so repeated calls vary
		entry *= 1 + (s.rnd.Float64()-0.5)*0.04
	}

	// risk band of 1-4% around entry, reward roughly twice the risk
	risk := entry * (0.01 + s.rnd.Float64()*0.03)
	var stopLoss, takeProfit float64
	if bullish {
		stopLoss = entry - risk
		takeProfit = entry + risk*2
	} else {
		stopLoss = entry + risk
		takeProfit = entry - risk*2
	}

	count := 2 + s.rnd.Intn(3)
	indicators := make([]string, 0, count)
	for _, i := range s.rnd.Perm(len(simulatedIndicators))[:count] {
		indicators = append(indicators, simulatedIndicators[i])
	}

	return &models.ChartAnalysis{
		Pair:       pair,
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Timeframe:  simulatedTimeframes[s.rnd.Intn(len(simulatedTimeframes))],
		Indicators: indicators,
	}
}
