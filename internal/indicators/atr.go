package indicators

import "math"

// ATR calculates the Average True Range, a volatility measure used to
// size stops and targets.
type ATR struct {
	period int
}

// NewATR creates a new ATR instance with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Series computes the Wilder-smoothed ATR series.
func (a *ATR) Series(highs, lows, closes []float64) ([]float64, error) {
	if len(closes) < 2*a.period || len(highs) != len(closes) || len(lows) != len(closes) {
		return nil, ErrInsufficientData
	}

	out := trueRangeAverage(highs, lows, closes, a.period)
	return markWarmup(out, a.period), nil
}

// Calculate returns the latest ATR value.
func (a *ATR) Calculate(highs, lows, closes []float64) (float64, error) {
	series, err := a.Series(highs, lows, closes)
	if err != nil {
		return 0, err
	}
	return last(series), nil
}

// trueRangeAverage is the unchecked ATR core, shared with ADX where the
// raw zero-filled warm-up is wanted for DI ratios.
func trueRangeAverage(highs, lows, closes []float64, period int) []float64 {
	tr := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	out := make([]float64, len(closes))
	out[period] = sma(tr[1 : period+1])
	for i := period + 1; i < len(closes); i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out
}
