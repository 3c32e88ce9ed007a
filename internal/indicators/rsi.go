package indicators

// RSI calculates the Relative Strength Index with Wilder smoothing.
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Series computes the RSI series for the given closes. Values are bounded
// to [0, 100]; entries before the warm-up window are NaN.
func (r *RSI) Series(closes []float64) ([]float64, error) {
	if len(closes) < 2*r.period {
		return nil, ErrInsufficientData
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGains := make([]float64, len(closes))
	avgLosses := make([]float64, len(closes))
	avgGains[r.period] = sma(gains[:r.period])
	avgLosses[r.period] = sma(losses[:r.period])

	// Wilder smoothing: new average = (prev*(period-1) + current) / period
	for i := r.period + 1; i < len(closes); i++ {
		avgGains[i] = (avgGains[i-1]*float64(r.period-1) + gains[i-1]) / float64(r.period)
		avgLosses[i] = (avgLosses[i-1]*float64(r.period-1) + losses[i-1]) / float64(r.period)
	}

	out := make([]float64, len(closes))
	for i := r.period; i < len(closes); i++ {
		rs := avgGains[i] / (avgLosses[i] + epsilon)
		out[i] = 100 - (100 / (1 + rs))
	}

	return markWarmup(out, r.period), nil
}

// Calculate returns the latest RSI value.
func (r *RSI) Calculate(closes []float64) (float64, error) {
	series, err := r.Series(closes)
	if err != nil {
		return 0, err
	}
	return last(series), nil
}
