package indicators

import (
	"time"

	"github.com/nexusdex/tradecore/pkg/types"
)

// constantSeries returns n copies of v.
func constantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// trendSeries returns n values starting at start, moving by step each bar.
func trendSeries(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// generateTestCandles builds n candles around the given closes with a fixed
// high/low spread.
func generateTestCandles(closes []float64, spread float64) []types.Candle {
	candles := make([]types.Candle, len(closes))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = types.Candle{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}
