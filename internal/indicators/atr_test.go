package indicators

import (
	"math"
	"testing"

	"github.com/nexusdex/tradecore/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATR_InsufficientData(t *testing.T) {
	atr := NewATR(14)
	candles := generateTestCandles(trendSeries(20, 100, 1), 5)

	_, err := atr.Series(types.Highs(candles), types.Lows(candles), types.Closes(candles))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestATR_ConstantRange(t *testing.T) {
	atr := NewATR(14)
	candles := generateTestCandles(constantSeries(60, 100), 5)

	value, err := atr.Calculate(types.Highs(candles), types.Lows(candles), types.Closes(candles))
	require.NoError(t, err)

	// Every bar spans exactly high-low = 10.
	assert.InDelta(t, 10.0, value, 1e-9)
}

func TestATR_WiderRangeMeansHigherATR(t *testing.T) {
	atr := NewATR(14)
	narrow := generateTestCandles(constantSeries(60, 100), 1)
	wide := generateTestCandles(constantSeries(60, 100), 8)

	narrowATR, err := atr.Calculate(types.Highs(narrow), types.Lows(narrow), types.Closes(narrow))
	require.NoError(t, err)
	wideATR, err := atr.Calculate(types.Highs(wide), types.Lows(wide), types.Closes(wide))
	require.NoError(t, err)

	assert.Greater(t, wideATR, narrowATR)
}

func TestATR_WarmupIsNaN(t *testing.T) {
	atr := NewATR(14)
	candles := generateTestCandles(trendSeries(60, 100, 1), 2)

	series, err := atr.Series(types.Highs(candles), types.Lows(candles), types.Closes(candles))
	require.NoError(t, err)

	assert.True(t, math.IsNaN(series[13]))
	assert.False(t, math.IsNaN(series[14]))
	assert.Greater(t, series[14], 0.0)
}
