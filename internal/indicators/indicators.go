// Package indicators implements the technical indicators used for signal
// generation. All calculators are pure functions of their input series.
// Series outputs are aligned positionally with the input candles; entries
// before an indicator's warm-up window are math.NaN.
package indicators

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when the input series is shorter than
// twice the indicator period.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// epsilon guards denominators in ratio calculations.
const epsilon = 1e-10

// sma computes the simple moving average of the given values.
func sma(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// markWarmup overwrites the leading n entries of a series with NaN.
func markWarmup(series []float64, n int) []float64 {
	if n > len(series) {
		n = len(series)
	}
	for i := 0; i < n; i++ {
		series[i] = math.NaN()
	}
	return series
}

// last returns the final value of a series.
func last(series []float64) float64 {
	return series[len(series)-1]
}
