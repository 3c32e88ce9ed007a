// Package risk implements the capital-preservation engine: position sizing,
// exposure accounting, the daily-loss circuit breaker and drawdown/Kelly math.
package risk

import (
	"fmt"
	"math"
	"sync"
	"time"

	coreerrors "github.com/nexusdex/tradecore/internal/errors"
	"github.com/nexusdex/tradecore/internal/logger"
)

// Manager owns the risk limits and all mutable risk state. All methods are
// safe for concurrent use; reads may happen while the monitor mutates
// counters.
type Manager struct {
	limits Limits
	log    *logger.Logger

	mu                   sync.RWMutex
	circuitBreakerActive bool
	dailyTrades          map[string]int
	consecutiveLosses    int

	now func() time.Time
}

// NewManager creates a risk manager with the given limits.
func NewManager(limits Limits, log *logger.Logger) *Manager {
	return &Manager{
		limits:      limits,
		log:         log,
		dailyTrades: make(map[string]int),
		now:         time.Now,
	}
}

// WithClock replaces the manager's clock; used by tests to pin the trading day.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Limits returns the configured limits.
func (m *Manager) Limits() Limits {
	return m.limits
}

// SizePosition computes the position size that risks riskPercent of the
// balance between entry and stop. If the notional would exceed the
// max-position-size cap, the size is clamped and the risk amount recomputed.
// A riskPercent of zero falls back to the configured default.
func (m *Manager) SizePosition(balance, entryPrice, stopLoss, riskPercent float64) (size, riskAmount float64, err error) {
	if balance <= 0 {
		return 0, 0, coreerrors.NewValidationError("risk", "SizePosition", "balance must be positive")
	}
	if riskPercent <= 0 {
		riskPercent = m.limits.RiskPerTradePercent
	}

	riskAmount = balance * riskPercent / 100
	perUnitRisk := math.Abs(entryPrice - stopLoss)
	if perUnitRisk == 0 {
		return 0, 0, coreerrors.NewValidationError("risk", "SizePosition", "stop distance is zero")
	}

	size = riskAmount / perUnitRisk

	maxNotional := balance * m.limits.MaxPositionSizePercent / 100
	if size*entryPrice > maxNotional {
		size = maxNotional / entryPrice
		riskAmount = size * perUnitRisk
		if m.log != nil {
			m.log.Warning("Position size clamped to %.2f%% notional cap: size=%.6f risk=$%.2f",
				m.limits.MaxPositionSizePercent, size, riskAmount)
		}
	}

	return size, riskAmount, nil
}

// ValidateOpen runs the ordered admission checks for a candidate position.
// Checks short-circuit on the first failure and have no side effects.
func (m *Manager) ValidateOpen(balance float64, candidate PositionRisk, openPositions []PositionRisk) Decision {
	m.mu.RLock()
	breakerActive := m.circuitBreakerActive
	dailyTrades := m.dailyTrades[m.today()]
	m.mu.RUnlock()

	if breakerActive {
		return rejected(RejectCircuitBreaker, "circuit breaker active - daily loss limit reached")
	}

	if len(openPositions) >= m.limits.MaxOpenPositions {
		return rejected(RejectMaxPositions,
			fmt.Sprintf("max open positions limit (%d) reached", m.limits.MaxOpenPositions))
	}

	if dailyTrades >= m.limits.DailyTradeLimit {
		return rejected(RejectDailyTradeLimit,
			fmt.Sprintf("daily trade limit (%d) reached", m.limits.DailyTradeLimit))
	}

	newHeat := PortfolioHeat(openPositions, balance) + candidate.RiskPercent
	if newHeat > m.limits.MaxPortfolioHeatPercent {
		return rejected(RejectPortfolioHeat,
			fmt.Sprintf("portfolio heat too high: %.2f%% (max: %.2f%%)", newHeat, m.limits.MaxPortfolioHeatPercent))
	}

	notional := candidate.Size * candidate.EntryPrice
	maxNotional := balance * m.limits.MaxPositionSizePercent / 100
	if notional > maxNotional {
		return rejected(RejectPositionSize,
			fmt.Sprintf("position size too large: $%.2f (max: $%.2f)", notional, maxNotional))
	}

	if candidate.Leverage > m.limits.MaxLeverage {
		return rejected(RejectLeverage,
			fmt.Sprintf("leverage too high: %dx (max: %dx)", candidate.Leverage, m.limits.MaxLeverage))
	}

	return approved()
}

// PortfolioHeat sums the risk percentages of the given positions: for each,
// the stop distance times size as a percentage of balance.
func PortfolioHeat(positions []PositionRisk, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	total := 0.0
	for _, p := range positions {
		perUnitRisk := math.Abs(p.EntryPrice - p.StopLoss)
		total += perUnitRisk * p.Size / balance * 100
	}
	return total
}

// CheckDailyLoss computes the loss since the start of the trading day and
// trips the circuit breaker when it reaches the configured limit. The
// breaker is sticky: once set it blocks all new opens until ResetDaily.
func (m *Manager) CheckDailyLoss(balance, dayStartBalance float64) (breached bool, lossPercent float64) {
	lossPercent = (dayStartBalance - balance) / dayStartBalance * 100

	if lossPercent >= m.limits.MaxDailyLossPercent {
		m.mu.Lock()
		m.circuitBreakerActive = true
		m.mu.Unlock()
		if m.log != nil {
			m.log.Error("CIRCUIT BREAKER ACTIVATED: daily loss %.2f%% (limit: %.2f%%)",
				lossPercent, m.limits.MaxDailyLossPercent)
		}
		return true, lossPercent
	}
	return false, lossPercent
}

// CheckDrawdown computes the drawdown from the peak balance. Informational
// only: exceeding the limit is reported but never trips the breaker.
func (m *Manager) CheckDrawdown(balance, peakBalance float64) (breached bool, drawdownPercent float64) {
	drawdownPercent = (peakBalance - balance) / peakBalance * 100
	if drawdownPercent >= m.limits.MaxDrawdownPercent {
		if m.log != nil {
			m.log.Warning("Max drawdown reached: %.2f%% (limit: %.2f%%)",
				drawdownPercent, m.limits.MaxDrawdownPercent)
		}
		return true, drawdownPercent
	}
	return false, drawdownPercent
}

// AdaptiveRiskPercent scales the per-trade risk down after consecutive
// losses and deep drawdowns.
func (m *Manager) AdaptiveRiskPercent(consecutiveLosses int, drawdownPercent float64) float64 {
	factor := 1.0
	switch {
	case consecutiveLosses >= 5:
		factor = 0.25
	case consecutiveLosses >= 3:
		factor = 0.5
	case consecutiveLosses >= 2:
		factor = 0.75
	}

	switch {
	case drawdownPercent >= 15:
		factor *= 0.5
	case drawdownPercent >= 10:
		factor *= 0.75
	}

	return m.limits.RiskPerTradePercent * factor
}

// KellyPercent computes the half-Kelly optimal risk percentage, capped at
// 5%. A non-positive Kelly (a losing strategy) returns 0.
func (m *Manager) KellyPercent(winRate, avgWin, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 0
	}
	payoff := avgWin / avgLoss
	kelly := winRate - (1-winRate)/payoff
	if kelly <= 0 {
		return 0
	}
	return math.Min(kelly/2*100, 5.0)
}

// RecordTrade increments the per-day trade counter. Called by the position
// manager on every successful open.
func (m *Manager) RecordTrade() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyTrades[m.today()]++
}

// RecordCloseResult feeds the consecutive-loss counter: a losing close
// increments it, any other close resets it.
func (m *Manager) RecordCloseResult(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pnl < 0 {
		m.consecutiveLosses++
	} else {
		m.consecutiveLosses = 0
	}
}

// ConsecutiveLosses returns the current losing streak length.
func (m *Manager) ConsecutiveLosses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consecutiveLosses
}

// CircuitBreakerActive reports whether new opens are blocked.
func (m *Manager) CircuitBreakerActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.circuitBreakerActive
}

// ResetDaily clears the circuit breaker and the per-day trade counter.
// Invoked exactly once per UTC day boundary by an external timer, never
// by the monitor itself.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerActive = false
	m.dailyTrades = make(map[string]int)
	if m.log != nil {
		m.log.Info("Daily risk limits reset")
	}
}

// Status returns a comprehensive risk report with a derived risk level.
func (m *Manager) Status(balance, dayStartBalance, peakBalance float64, openPositions []PositionRisk) Status {
	m.mu.RLock()
	breakerActive := m.circuitBreakerActive
	dailyTrades := m.dailyTrades[m.today()]
	losses := m.consecutiveLosses
	m.mu.RUnlock()

	dailyLoss := (dayStartBalance - balance) / dayStartBalance * 100
	drawdown := (peakBalance - balance) / peakBalance * 100
	heat := PortfolioHeat(openPositions, balance)

	var level Level
	switch {
	case breakerActive || dailyLoss >= m.limits.MaxDailyLossPercent:
		level = LevelCritical
	case heat >= m.limits.MaxPortfolioHeatPercent*0.8:
		level = LevelHigh
	case heat >= m.limits.MaxPortfolioHeatPercent*0.5:
		level = LevelMedium
	default:
		level = LevelLow
	}

	return Status{
		CircuitBreakerActive: breakerActive,
		DailyLossPercent:     dailyLoss,
		DailyLossLimit:       m.limits.MaxDailyLossPercent,
		DrawdownPercent:      drawdown,
		DrawdownLimit:        m.limits.MaxDrawdownPercent,
		PortfolioHeat:        heat,
		PortfolioHeatLimit:   m.limits.MaxPortfolioHeatPercent,
		OpenPositions:        len(openPositions),
		PositionsLimit:       m.limits.MaxOpenPositions,
		DailyTrades:          dailyTrades,
		DailyTradesLimit:     m.limits.DailyTradeLimit,
		ConsecutiveLosses:    losses,
		RiskLevel:            level,
	}
}

func (m *Manager) today() string {
	return m.now().UTC().Format("2006-01-02")
}
