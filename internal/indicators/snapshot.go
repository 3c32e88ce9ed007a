package indicators

import (
	"fmt"

	"github.com/nexusdex/tradecore/pkg/types"
)

// Config holds the periods for every indicator in a snapshot.
type Config struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBStdDev   float64
	ATRPeriod  int
	ADXPeriod  int
}

// DefaultConfig returns the standard indicator periods.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBStdDev:   2.0,
		ATRPeriod:  14,
		ADXPeriod:  14,
	}
}

// Snapshot holds the latest value of every indicator for one candle window.
type Snapshot struct {
	RSI        float64
	MACDLine   float64
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	ATR        float64
	ADX        float64
}

// Compute evaluates all indicators over the candle window and returns their
// latest values. The window must cover every indicator's warm-up.
func Compute(candles []types.Candle, cfg Config) (*Snapshot, error) {
	closes := types.Closes(candles)
	highs := types.Highs(candles)
	lows := types.Lows(candles)

	rsi, err := NewRSI(cfg.RSIPeriod).Calculate(closes)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}

	macdLine, macdSignal, macdHist, err := NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal).Calculate(closes)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}

	bbUpper, bbMiddle, bbLower, err := NewBollingerBands(cfg.BBPeriod, cfg.BBStdDev).Calculate(closes)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}

	atr, err := NewATR(cfg.ATRPeriod).Calculate(highs, lows, closes)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}

	adx, err := NewADX(cfg.ADXPeriod).Calculate(highs, lows, closes)
	if err != nil {
		return nil, fmt.Errorf("adx: %w", err)
	}

	return &Snapshot{
		RSI:        rsi,
		MACDLine:   macdLine,
		MACDSignal: macdSignal,
		MACDHist:   macdHist,
		BBUpper:    bbUpper,
		BBMiddle:   bbMiddle,
		BBLower:    bbLower,
		ATR:        atr,
		ADX:        adx,
	}, nil
}
