package risk

import (
	coreerrors "github.com/nexusdex/tradecore/internal/errors"
)

// Limits is the externally supplied risk configuration.
type Limits struct {
	MaxDailyLossPercent     float64
	MaxPositionSizePercent  float64
	MaxOpenPositions        int
	MaxPortfolioHeatPercent float64
	MaxDrawdownPercent      float64
	RiskPerTradePercent     float64
	MaxLeverage             int
	DailyTradeLimit         int
}

// DefaultLimits returns conservative defaults: 5% daily loss, 10% position
// size, 5 positions, 15% heat, 20% drawdown, 1% risk per trade, 10x
// leverage, 20 trades per day.
func DefaultLimits() Limits {
	return Limits{
		MaxDailyLossPercent:     5.0,
		MaxPositionSizePercent:  10.0,
		MaxOpenPositions:        5,
		MaxPortfolioHeatPercent: 15.0,
		MaxDrawdownPercent:      20.0,
		RiskPerTradePercent:     1.0,
		MaxLeverage:             10,
		DailyTradeLimit:         20,
	}
}

// Validate rejects limits that would make the risk engine meaningless.
func (l Limits) Validate() error {
	if l.MaxDailyLossPercent <= 0 || l.MaxDailyLossPercent > 100 {
		return coreerrors.NewConfigError("risk", "Validate", "max daily loss percent must be in (0, 100]")
	}
	if l.MaxPositionSizePercent <= 0 || l.MaxPositionSizePercent > 100 {
		return coreerrors.NewConfigError("risk", "Validate", "max position size percent must be in (0, 100]")
	}
	if l.MaxOpenPositions < 1 {
		return coreerrors.NewConfigError("risk", "Validate", "max open positions must be at least 1")
	}
	if l.MaxPortfolioHeatPercent <= 0 {
		return coreerrors.NewConfigError("risk", "Validate", "max portfolio heat must be positive")
	}
	if l.MaxDrawdownPercent <= 0 || l.MaxDrawdownPercent > 100 {
		return coreerrors.NewConfigError("risk", "Validate", "max drawdown percent must be in (0, 100]")
	}
	if l.RiskPerTradePercent <= 0 {
		return coreerrors.NewConfigError("risk", "Validate", "risk per trade percent must be positive")
	}
	if l.MaxLeverage < 1 {
		return coreerrors.NewConfigError("risk", "Validate", "max leverage must be at least 1")
	}
	if l.DailyTradeLimit < 1 {
		return coreerrors.NewConfigError("risk", "Validate", "daily trade limit must be at least 1")
	}
	return nil
}

// PositionRisk is the risk footprint of one candidate or open position.
type PositionRisk struct {
	EntryPrice  float64
	StopLoss    float64
	Size        float64
	Leverage    int
	RiskAmount  float64
	RiskPercent float64
}

// RejectReason identifies which validation check rejected a candidate.
type RejectReason string

const (
	RejectCircuitBreaker  RejectReason = "circuit_breaker"
	RejectMaxPositions    RejectReason = "max_open_positions"
	RejectDailyTradeLimit RejectReason = "daily_trade_limit"
	RejectPortfolioHeat   RejectReason = "portfolio_heat"
	RejectPositionSize    RejectReason = "position_size"
	RejectLeverage        RejectReason = "leverage"
)

// Decision is the outcome of a position validation. A rejection is a
// normal decision outcome, not an error.
type Decision struct {
	Approved bool
	Reason   RejectReason
	Message  string
}

func approved() Decision {
	return Decision{Approved: true, Message: "position approved"}
}

func rejected(reason RejectReason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Level is the derived severity of the current risk state.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Status is a comprehensive risk report against the configured limits.
type Status struct {
	CircuitBreakerActive bool
	DailyLossPercent     float64
	DailyLossLimit       float64
	DrawdownPercent      float64
	DrawdownLimit        float64
	PortfolioHeat        float64
	PortfolioHeatLimit   float64
	OpenPositions        int
	PositionsLimit       int
	DailyTrades          int
	DailyTradesLimit     int
	ConsecutiveLosses    int
	RiskLevel            Level
}
