package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexusdex/tradecore/internal/position"
)

func closedTrade(pnl float64) *position.Position {
	return &position.Position{
		Status: position.StatusClosed,
		PnL:    pnl,
	}
}

func TestBuildDailySummary(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	trades := []*position.Position{
		closedTrade(120),
		closedTrade(-40),
		closedTrade(75),
		closedTrade(-90),
		{Status: position.StatusOpen, PnL: 999}, // open trades are excluded
	}

	s := BuildDailySummary(date, trades, 10000, 10065)

	assert.Equal(t, 4, s.TradeCount)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 65.0, s.GrossPnL, 1e-9)
	assert.InDelta(t, 120.0, s.BestTrade, 1e-9)
	assert.InDelta(t, -90.0, s.WorstTrade, 1e-9)
	assert.InDelta(t, 10000.0, s.StartBalance, 1e-9)
	assert.InDelta(t, 10065.0, s.EndBalance, 1e-9)

	msg := s.Message()
	assert.Contains(t, msg, "2026-03-10")
	assert.Contains(t, msg, "Trades: 4 (2 W / 2 L, 50.0%)")
	assert.Contains(t, msg, "$10000.00 -> $10065.00")
}

func TestBuildDailySummary_NoTrades(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s := BuildDailySummary(date, nil, 10000, 10000)

	assert.Zero(t, s.TradeCount)
	assert.Zero(t, s.GrossPnL)
}
