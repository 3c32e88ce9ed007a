package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Snapshot(t *testing.T) {
	candles := generateTestCandles(trendSeries(100, 100, 0.5), 2)

	snapshot, err := Compute(candles, DefaultConfig())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, snapshot.RSI, 0.0)
	assert.LessOrEqual(t, snapshot.RSI, 100.0)
	assert.GreaterOrEqual(t, snapshot.BBUpper, snapshot.BBMiddle)
	assert.GreaterOrEqual(t, snapshot.BBMiddle, snapshot.BBLower)
	assert.Greater(t, snapshot.ATR, 0.0)
	assert.GreaterOrEqual(t, snapshot.ADX, 0.0)
	assert.InDelta(t, snapshot.MACDLine-snapshot.MACDSignal, snapshot.MACDHist, 1e-9)
}

func TestCompute_InsufficientWindow(t *testing.T) {
	candles := generateTestCandles(trendSeries(30, 100, 0.5), 2)

	_, err := Compute(candles, DefaultConfig())
	assert.Error(t, err)
}
