package indicators

import "math"

// ADX calculates the Average Directional Index, a trend-strength measure
// in [0, 100]. Readings above 25 indicate a strong trend.
type ADX struct {
	period int
}

// NewADX creates a new ADX instance with the given period.
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

// Series computes the ADX series from directional movement.
func (a *ADX) Series(highs, lows, closes []float64) ([]float64, error) {
	if len(closes) < 2*a.period || len(highs) != len(closes) || len(lows) != len(closes) {
		return nil, ErrInsufficientData
	}

	plusDM := make([]float64, len(closes))
	minusDM := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		highDiff := highs[i] - highs[i-1]
		lowDiff := lows[i-1] - lows[i]

		if highDiff > lowDiff && highDiff > 0 {
			plusDM[i] = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM[i] = lowDiff
		}
	}

	atr := trueRangeAverage(highs, lows, closes, a.period)
	plusSmooth := emaSeries(plusDM, a.period)
	minusSmooth := emaSeries(minusDM, a.period)

	dx := make([]float64, len(closes))
	for i := range closes {
		plusDI := 100 * plusSmooth[i] / (atr[i] + epsilon)
		minusDI := 100 * minusSmooth[i] / (atr[i] + epsilon)
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI + epsilon)
	}

	out := emaSeries(dx, a.period)
	return markWarmup(out, a.period), nil
}

// Calculate returns the latest ADX value.
func (a *ADX) Calculate(highs, lows, closes []float64) (float64, error) {
	series, err := a.Series(highs, lows, closes)
	if err != nil {
		return 0, err
	}
	return last(series), nil
}
