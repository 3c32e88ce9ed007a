package indicators

// MACD calculates the Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD instance with the given fast, slow and signal periods.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Series computes the MACD line, signal line and histogram series.
func (m *MACD) Series(closes []float64) (macdLine, signalLine, histogram []float64, err error) {
	if len(closes) < 2*m.slowPeriod {
		return nil, nil, nil, ErrInsufficientData
	}

	fastEMA := emaSeries(closes, m.fastPeriod)
	slowEMA := emaSeries(closes, m.slowPeriod)

	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine = emaSeries(macdLine, m.signalPeriod)

	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return macdLine, signalLine, histogram, nil
}

// Calculate returns the latest MACD line, signal line and histogram values.
func (m *MACD) Calculate(closes []float64) (macdLine, signalLine, histogram float64, err error) {
	lineSeries, signalSeries, histSeries, err := m.Series(closes)
	if err != nil {
		return 0, 0, 0, err
	}
	return last(lineSeries), last(signalSeries), last(histSeries), nil
}
