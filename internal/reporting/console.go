// Package reporting renders human-facing views of the trading core: console
// tables during a live run and Excel exports of the trade history.
package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nexusdex/tradecore/internal/position"
	"github.com/nexusdex/tradecore/internal/risk"
)

// PrintStartupInfo renders the run configuration table at boot.
func PrintStartupInfo(venue, pair, timeframe, environment string, leverage int, balance float64) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADING CORE INITIALIZATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Pair", pair},
		{"⏰ Timeframe", timeframe},
		{"🏪 Venue", venue},
		{"🔧 Environment", environment},
		{"⚖️ Leverage", fmt.Sprintf("%dx", leverage)},
		{"💰 Balance", fmt.Sprintf("$%.2f", balance)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 35, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintRiskStatus renders the current risk report.
func PrintRiskStatus(status risk.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RISK STATUS")
	t.SetStyle(table.StyleRounded)

	breaker := "inactive"
	if status.CircuitBreakerActive {
		breaker = "🚨 ACTIVE"
	}

	t.AppendRows([]table.Row{
		{"Risk Level", string(status.RiskLevel)},
		{"Circuit Breaker", breaker},
		{"Daily Loss", fmt.Sprintf("%.2f%% / %.2f%%", status.DailyLossPercent, status.DailyLossLimit)},
		{"Drawdown", fmt.Sprintf("%.2f%% / %.2f%%", status.DrawdownPercent, status.DrawdownLimit)},
		{"Portfolio Heat", fmt.Sprintf("%.2f%% / %.2f%%", status.PortfolioHeat, status.PortfolioHeatLimit)},
		{"Open Positions", fmt.Sprintf("%d / %d", status.OpenPositions, status.PositionsLimit)},
		{"Daily Trades", fmt.Sprintf("%d / %d", status.DailyTrades, status.DailyTradesLimit)},
		{"Consecutive Losses", status.ConsecutiveLosses},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}

// PrintOpenPositions renders the open ledger with unrealized results.
func PrintOpenPositions(statuses []position.PositionStatus) {
	if len(statuses) == 0 {
		fmt.Println("No open positions")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OPEN POSITIONS")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Pair", "Side", "Entry", "Current", "Stop", "Target", "Size", "uPnL", "uPnL %"})
	for _, s := range statuses {
		t.AppendRow(table.Row{
			s.Pair,
			string(s.Side),
			fmt.Sprintf("$%.2f", s.EntryPrice),
			fmt.Sprintf("$%.2f", s.CurrentPrice),
			fmt.Sprintf("$%.2f", s.StopLoss),
			fmt.Sprintf("$%.2f", s.TakeProfit),
			fmt.Sprintf("%.6f", s.Size),
			fmt.Sprintf("$%.2f", s.UnrealizedPnL),
			fmt.Sprintf("%+.2f%%", s.UnrealizedPnLPct),
		})
	}

	t.Render()
	fmt.Println()
}

// DailySummary aggregates one day of closed trades.
type DailySummary struct {
	Date         time.Time
	TradeCount   int
	Wins         int
	Losses       int
	GrossPnL     float64
	BestTrade    float64
	WorstTrade   float64
	EndBalance   float64
	StartBalance float64
}

// BuildDailySummary folds the day's closed trades into a summary.
func BuildDailySummary(date time.Time, trades []*position.Position, startBalance, endBalance float64) DailySummary {
	s := DailySummary{
		Date:         date,
		StartBalance: startBalance,
		EndBalance:   endBalance,
	}
	for _, p := range trades {
		if p.Status != position.StatusClosed {
			continue
		}
		s.TradeCount++
		s.GrossPnL += p.PnL
		if p.PnL >= 0 {
			s.Wins++
		} else {
			s.Losses++
		}
		if p.PnL > s.BestTrade {
			s.BestTrade = p.PnL
		}
		if p.PnL < s.WorstTrade {
			s.WorstTrade = p.PnL
		}
	}
	return s
}

// Message renders the summary as notification text.
func (s DailySummary) Message() string {
	winRate := 0.0
	if s.TradeCount > 0 {
		winRate = float64(s.Wins) / float64(s.TradeCount) * 100
	}
	return fmt.Sprintf(
		"Date: %s\nTrades: %d (%d W / %d L, %.1f%%)\nGross PnL: $%.2f\nBalance: $%.2f -> $%.2f",
		s.Date.Format("2006-01-02"), s.TradeCount, s.Wins, s.Losses, winRate,
		s.GrossPnL, s.StartBalance, s.EndBalance,
	)
}

// PrintDailySummary renders the end-of-day report.
func PrintDailySummary(s DailySummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DAILY SUMMARY " + s.Date.Format("2006-01-02"))
	t.SetStyle(table.StyleRounded)

	winRate := 0.0
	if s.TradeCount > 0 {
		winRate = float64(s.Wins) / float64(s.TradeCount) * 100
	}

	t.AppendRows([]table.Row{
		{"Trades", s.TradeCount},
		{"Wins / Losses", fmt.Sprintf("%d / %d", s.Wins, s.Losses)},
		{"Win Rate", fmt.Sprintf("%.1f%%", winRate)},
		{"Gross PnL", fmt.Sprintf("$%.2f", s.GrossPnL)},
		{"Best Trade", fmt.Sprintf("$%.2f", s.BestTrade)},
		{"Worst Trade", fmt.Sprintf("$%.2f", s.WorstTrade)},
		{"Balance", fmt.Sprintf("$%.2f -> $%.2f", s.StartBalance, s.EndBalance)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}
