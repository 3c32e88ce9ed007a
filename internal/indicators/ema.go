package indicators

// EMA calculates the Exponential Moving Average.
type EMA struct {
	period int
}

// NewEMA creates a new EMA instance with the given period.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Series computes the full EMA series for the given values. The first value
// seeds the average, so the output has no warm-up gap.
func (e *EMA) Series(values []float64) ([]float64, error) {
	if len(values) < 2*e.period {
		return nil, ErrInsufficientData
	}
	return emaSeries(values, e.period), nil
}

// Calculate returns the latest EMA value.
func (e *EMA) Calculate(values []float64) (float64, error) {
	series, err := e.Series(values)
	if err != nil {
		return 0, err
	}
	return last(series), nil
}

// emaSeries is the unchecked core used by MACD and ADX, which smooth
// derived series of arbitrary length.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	multiplier := 2.0 / float64(period+1)
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out
}
