package position

import (
	"fmt"
	"math"
	"time"

	"github.com/nexusdex/tradecore/internal/risk"
)

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Status is the lifecycle state of a position. Closed is terminal.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// CloseReason records why a position was closed.
type CloseReason string

const (
	ReasonStopLoss   CloseReason = "STOP_LOSS"
	ReasonTakeProfit CloseReason = "TAKE_PROFIT"
	ReasonManual     CloseReason = "MANUAL"
)

// Position is one trade from open to close. Positions are created only
// through a successful risk validation and mutated only by the Manager.
type Position struct {
	ID          string      `json:"id"`
	Owner       string      `json:"owner"`
	Exchange    string      `json:"exchange"`
	Pair        string      `json:"pair"`
	Side        Side        `json:"side"`
	EntryPrice  float64     `json:"entry_price"`
	StopLoss    float64     `json:"stop_loss"`
	TakeProfit  float64     `json:"take_profit"`
	Size        float64     `json:"size"`
	Leverage    int         `json:"leverage"`
	Confidence  float64     `json:"confidence,omitempty"`
	OpenedAt    time.Time   `json:"opened_at"`
	Status      Status      `json:"status"`
	CloseReason CloseReason `json:"close_reason,omitempty"`
	ExitPrice   float64     `json:"exit_price,omitempty"`
	PnL         float64     `json:"pnl,omitempty"`
	PnLPercent  float64     `json:"pnl_percent,omitempty"`
	ClosedAt    time.Time   `json:"closed_at,omitempty"`
}

// RiskFootprint returns the position's contribution to portfolio heat.
func (p *Position) RiskFootprint(balance float64) risk.PositionRisk {
	perUnitRisk := math.Abs(p.EntryPrice - p.StopLoss)
	riskAmount := perUnitRisk * p.Size
	riskPercent := 0.0
	if balance > 0 {
		riskPercent = riskAmount / balance * 100
	}
	return risk.PositionRisk{
		EntryPrice:  p.EntryPrice,
		StopLoss:    p.StopLoss,
		Size:        p.Size,
		Leverage:    p.Leverage,
		RiskAmount:  riskAmount,
		RiskPercent: riskPercent,
	}
}

// UnrealizedPnL computes the mark-to-market result at the given price.
func (p *Position) UnrealizedPnL(currentPrice float64) (pnl, pnlPercent float64) {
	perUnit := pnlPerUnit(p.Side, p.EntryPrice, currentPrice)
	pnl = perUnit * p.Size * float64(p.Leverage)
	pnlPercent = perUnit / p.EntryPrice * 100 * float64(p.Leverage)
	return pnl, pnlPercent
}

// pnlPerUnit is the signed per-unit profit for a side.
func pnlPerUnit(side Side, entry, exit float64) float64 {
	if side == SideLong {
		return exit - entry
	}
	return entry - exit
}

// PositionStatus is a mark-to-market snapshot of an open position.
type PositionStatus struct {
	ID               string
	Pair             string
	Side             Side
	EntryPrice       float64
	CurrentPrice     float64
	StopLoss         float64
	TakeProfit       float64
	Size             float64
	Leverage         int
	UnrealizedPnL    float64
	UnrealizedPnLPct float64
	OpenedAt         time.Time
}

// formatDuration renders a position's lifetime as "2h 15m".
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
