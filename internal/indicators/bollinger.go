package indicators

import "math"

// BollingerBands calculates a volatility envelope around a simple moving average.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new BollingerBands instance with the given
// period and standard deviation multiplier.
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{
		period: period,
		stdDev: stdDev,
	}
}

// Series computes the upper, middle and lower band series. At every index
// past warm-up, upper >= middle >= lower holds.
func (bb *BollingerBands) Series(closes []float64) (upper, middle, lower []float64, err error) {
	if len(closes) < 2*bb.period {
		return nil, nil, nil, ErrInsufficientData
	}

	upper = make([]float64, len(closes))
	middle = make([]float64, len(closes))
	lower = make([]float64, len(closes))

	for i := bb.period - 1; i < len(closes); i++ {
		window := closes[i-bb.period+1 : i+1]
		mean := sma(window)
		variance := 0.0
		for _, v := range window {
			diff := v - mean
			variance += diff * diff
		}
		std := math.Sqrt(variance / float64(bb.period))

		middle[i] = mean
		upper[i] = mean + bb.stdDev*std
		lower[i] = mean - bb.stdDev*std
	}

	markWarmup(upper, bb.period-1)
	markWarmup(middle, bb.period-1)
	markWarmup(lower, bb.period-1)
	return upper, middle, lower, nil
}

// Calculate returns the latest upper, middle and lower band values.
func (bb *BollingerBands) Calculate(closes []float64) (upper, middle, lower float64, err error) {
	upperSeries, middleSeries, lowerSeries, err := bb.Series(closes)
	if err != nil {
		return 0, 0, 0, err
	}
	return last(upperSeries), last(middleSeries), last(lowerSeries), nil
}
