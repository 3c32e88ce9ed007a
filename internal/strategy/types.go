package strategy

import (
	"time"

	"github.com/nexusdex/tradecore/internal/indicators"
)

// Direction is the recommended trade direction of a signal.
type Direction int

const (
	DirectionHold Direction = iota
	DirectionBuy
	DirectionSell
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "BUY"
	case DirectionSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Reason tags identify which indicator rule contributed to a signal.
const (
	ReasonRSIOversold   = "RSI_OVERSOLD"
	ReasonRSIOverbought = "RSI_OVERBOUGHT"
	ReasonMACDBullish   = "MACD_BULLISH"
	ReasonMACDBearish   = "MACD_BEARISH"
	ReasonBBLower       = "BB_LOWER"
	ReasonBBUpper       = "BB_UPPER"
	ReasonNoClearSignal = "NO_CLEAR_SIGNAL"
	ReasonOffSession    = "OFF_SESSION"
)

// Signal is a single trading recommendation. Confidence is in [0, 100];
// a signal is actionable only when Direction is not Hold.
type Signal struct {
	Direction  Direction
	Confidence float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Reasons    []string
	Snapshot   *indicators.Snapshot
	Timestamp  time.Time
}

// Actionable reports whether the signal recommends opening a position.
func (s *Signal) Actionable() bool {
	return s.Direction != DirectionHold
}
