// Package position owns the open-to-closed lifecycle of trades. Positions
// enter the ledger only through a successful risk validation and leave it
// only through Close.
package position

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	coreerrors "github.com/nexusdex/tradecore/internal/errors"
	"github.com/nexusdex/tradecore/internal/logger"
	"github.com/nexusdex/tradecore/internal/monitoring"
	"github.com/nexusdex/tradecore/internal/notifications"
	"github.com/nexusdex/tradecore/internal/risk"
)

// liquidationWarningPercent is the distance-to-liquidation threshold below
// which a warning is emitted for leveraged positions.
const liquidationWarningPercent = 5.0

// Persistence is the slice of the storage collaborator the manager needs.
type Persistence interface {
	SaveTrade(p *Position) error
	Balance(owner string) (float64, error)
	UpdateBalance(owner string, newBalance float64) error
}

// Manager is the position lifecycle state machine. It is the single writer
// of the active ledger; the monitor and explicit open/close calls are the
// only mutation paths.
type Manager struct {
	mu        sync.RWMutex
	positions map[string]*Position

	risk      *risk.Manager
	store     Persistence
	notifier  notifications.Notifier
	log       *logger.Logger
	estimator LiquidationEstimator

	now   func() time.Time
	newID func() string
}

// NewManager creates a lifecycle manager with the leverage-only
// liquidation estimator.
func NewManager(riskMgr *risk.Manager, store Persistence, notifier notifications.Notifier, log *logger.Logger) *Manager {
	return &Manager{
		positions: make(map[string]*Position),
		risk:      riskMgr,
		store:     store,
		notifier:  notifier,
		log:       log,
		estimator: LeverageOnlyEstimator{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithEstimator replaces the liquidation estimator.
func (m *Manager) WithEstimator(est LiquidationEstimator) *Manager {
	m.estimator = est
	return m
}

// WithClock replaces the manager's clock; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// OpenRequest is a candidate trade that has passed signal composition but
// not yet risk validation.
type OpenRequest struct {
	Owner      string
	Exchange   string
	Pair       string
	Side       Side
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Size       float64
	Leverage   int
	Confidence float64
}

// Open validates the candidate against the risk engine and, on approval,
// registers a new open position, counts the trade and fires an "opened"
// notification. On rejection nothing is created and no state changes.
func (m *Manager) Open(req OpenRequest, balance float64) (*Position, risk.Decision) {
	candidate := footprint(req, balance)

	m.mu.RLock()
	open := m.openFootprintsLocked(balance)
	m.mu.RUnlock()

	decision := m.risk.ValidateOpen(balance, candidate, open)
	if !decision.Approved {
		m.log.Warning("Trade rejected: %s", decision.Message)
		monitoring.RecordRiskRejection(string(decision.Reason))
		return nil, decision
	}

	p := &Position{
		ID:         m.newID(),
		Owner:      req.Owner,
		Exchange:   req.Exchange,
		Pair:       req.Pair,
		Side:       req.Side,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Size:       req.Size,
		Leverage:   req.Leverage,
		Confidence: req.Confidence,
		OpenedAt:   m.now(),
		Status:     StatusOpen,
	}

	m.mu.Lock()
	m.positions[p.ID] = p
	count := len(m.positions)
	m.mu.Unlock()

	m.risk.RecordTrade()

	if err := m.store.SaveTrade(p); err != nil {
		m.log.LogError("Failed to persist opened position", err)
	}

	monitoring.RecordPositionOpened(p.Pair, string(p.Side))
	monitoring.SetOpenPositions(count)
	m.log.Trade("Position opened: id=%s %s %s entry=$%.2f stop=$%.2f target=$%.2f size=%.6f lev=%dx",
		p.ID, p.Pair, p.Side, p.EntryPrice, p.StopLoss, p.TakeProfit, p.Size, p.Leverage)

	// Fire-and-forget: a failed notification never aborts the open.
	if err := m.notifier.NotifyOpened(notifications.OpenedDetails{
		Exchange:   p.Exchange,
		Pair:       p.Pair,
		Side:       string(p.Side),
		EntryPrice: p.EntryPrice,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		Size:       p.Size,
		Leverage:   p.Leverage,
		Confidence: p.Confidence,
	}); err != nil {
		m.log.LogError("Failed to send opened notification", err)
	}

	return p, decision
}

// Action is the outcome of evaluating an open position at a price.
type Action int

const (
	ActionNone Action = iota
	ActionClose
	ActionWarnLiquidation
)

// Evaluation is the decision produced by Evaluate.
type Evaluation struct {
	Action           Action
	Reason           CloseReason
	LiquidationPrice float64
	DistancePercent  float64
}

// Evaluate is the pure close/warn/no-op decision for a position at the
// current price. Stop and target checks run before the liquidation check.
func Evaluate(p *Position, currentPrice float64, est LiquidationEstimator) Evaluation {
	if p.Side == SideLong {
		if currentPrice <= p.StopLoss {
			return Evaluation{Action: ActionClose, Reason: ReasonStopLoss}
		}
		if currentPrice >= p.TakeProfit {
			return Evaluation{Action: ActionClose, Reason: ReasonTakeProfit}
		}
	} else {
		if currentPrice >= p.StopLoss {
			return Evaluation{Action: ActionClose, Reason: ReasonStopLoss}
		}
		if currentPrice <= p.TakeProfit {
			return Evaluation{Action: ActionClose, Reason: ReasonTakeProfit}
		}
	}

	if p.Leverage > 1 {
		liquidation := est.LiquidationPrice(p)
		distance := math.Abs(currentPrice-liquidation) / currentPrice * 100
		if distance < liquidationWarningPercent {
			return Evaluation{
				Action:           ActionWarnLiquidation,
				LiquidationPrice: liquidation,
				DistancePercent:  distance,
			}
		}
	}

	return Evaluation{Action: ActionNone}
}

// Check evaluates one ledger position at the current price and applies the
// outcome: close on stop/target, warn when close to liquidation, otherwise
// nothing. A missing position is a defensive no-op with a loud log entry.
func (m *Manager) Check(id string, currentPrice float64) error {
	m.mu.RLock()
	p, ok := m.positions[id]
	m.mu.RUnlock()
	if !ok {
		err := coreerrors.NewStateError("position", "Check", "position missing from ledger: "+id)
		m.log.LogError("Ledger inconsistency detected", err)
		return err
	}

	eval := Evaluate(p, currentPrice, m.estimator)
	switch eval.Action {
	case ActionClose:
		m.log.Info("%s hit: id=%s price=$%.2f", eval.Reason, id, currentPrice)
		_, err := m.Close(id, currentPrice, eval.Reason)
		return err

	case ActionWarnLiquidation:
		m.log.Error("LIQUIDATION WARNING: id=%s distance=%.2f%%", id, eval.DistancePercent)
		if err := m.notifier.NotifyCritical(formatLiquidationWarning(p, currentPrice, eval)); err != nil {
			m.log.LogError("Failed to send liquidation warning", err)
		}
	}
	return nil
}

// Close transitions a position to Closed, removes it from the ledger,
// settles the balance with the persistence collaborator and feeds the risk
// engine's consecutive-loss counter. Closed is terminal.
func (m *Manager) Close(id string, exitPrice float64, reason CloseReason) (*Position, error) {
	m.mu.Lock()
	p, ok := m.positions[id]
	if !ok {
		m.mu.Unlock()
		err := coreerrors.NewStateError("position", "Close", "position missing from ledger: "+id)
		m.log.LogError("Ledger inconsistency detected", err)
		return nil, err
	}

	perUnit := pnlPerUnit(p.Side, p.EntryPrice, exitPrice)
	p.PnL = perUnit * p.Size * float64(p.Leverage)
	p.PnLPercent = perUnit / p.EntryPrice * 100 * float64(p.Leverage)
	p.ExitPrice = exitPrice
	p.Status = StatusClosed
	p.CloseReason = reason
	p.ClosedAt = m.now()

	delete(m.positions, id)
	count := len(m.positions)
	m.mu.Unlock()

	m.risk.RecordCloseResult(p.PnL)

	if err := m.store.SaveTrade(p); err != nil {
		m.log.LogError("Failed to persist closed position", err)
	}
	if balance, err := m.store.Balance(p.Owner); err != nil {
		m.log.LogError("Failed to read balance for settlement", err)
	} else if err := m.store.UpdateBalance(p.Owner, balance+p.PnL); err != nil {
		m.log.LogError("Failed to settle balance", err)
	}

	monitoring.RecordPositionClosed(p.Pair, string(reason))
	monitoring.SetOpenPositions(count)
	m.log.Trade("Position closed: id=%s reason=%s exit=$%.2f pnl=$%.2f (%+.2f%%)",
		p.ID, reason, exitPrice, p.PnL, p.PnLPercent)

	if err := m.notifier.NotifyClosed(notifications.ClosedDetails{
		Exchange:   p.Exchange,
		Pair:       p.Pair,
		Side:       string(p.Side),
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPrice,
		PnL:        p.PnL,
		PnLPercent: p.PnLPercent,
		Reason:     string(reason),
		Duration:   formatDuration(p.ClosedAt.Sub(p.OpenedAt)),
	}); err != nil {
		m.log.LogError("Failed to send closed notification", err)
	}

	return p, nil
}

// ListOpen returns a snapshot of the open positions.
func (m *Manager) ListOpen() []Position {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, *p)
	}
	return out
}

// Count returns the number of open positions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions)
}

// OpenFootprints returns the risk footprints of all open positions.
func (m *Manager) OpenFootprints(balance float64) []risk.PositionRisk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.openFootprintsLocked(balance)
}

func (m *Manager) openFootprintsLocked(balance float64) []risk.PositionRisk {
	out := make([]risk.PositionRisk, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p.RiskFootprint(balance))
	}
	return out
}

// MarkToMarket returns the unrealized status of one open position.
func (m *Manager) MarkToMarket(id string, currentPrice float64) (*PositionStatus, error) {
	m.mu.RLock()
	p, ok := m.positions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, coreerrors.NewStateError("position", "MarkToMarket", "position missing from ledger: "+id)
	}

	pnl, pnlPct := p.UnrealizedPnL(currentPrice)
	return &PositionStatus{
		ID:               p.ID,
		Pair:             p.Pair,
		Side:             p.Side,
		EntryPrice:       p.EntryPrice,
		CurrentPrice:     currentPrice,
		StopLoss:         p.StopLoss,
		TakeProfit:       p.TakeProfit,
		Size:             p.Size,
		Leverage:         p.Leverage,
		UnrealizedPnL:    pnl,
		UnrealizedPnLPct: pnlPct,
		OpenedAt:         p.OpenedAt,
	}, nil
}

// footprint builds the risk footprint of a candidate open request.
func footprint(req OpenRequest, balance float64) risk.PositionRisk {
	perUnitRisk := math.Abs(req.EntryPrice - req.StopLoss)
	riskAmount := perUnitRisk * req.Size
	riskPercent := 0.0
	if balance > 0 {
		riskPercent = riskAmount / balance * 100
	}
	return risk.PositionRisk{
		EntryPrice:  req.EntryPrice,
		StopLoss:    req.StopLoss,
		Size:        req.Size,
		Leverage:    req.Leverage,
		RiskAmount:  riskAmount,
		RiskPercent: riskPercent,
	}
}

func formatLiquidationWarning(p *Position, currentPrice float64, eval Evaluation) string {
	return fmt.Sprintf("LIQUIDATION WARNING\n\nPosition: %s\nPair: %s\nCurrent Price: $%.2f\nLiquidation Price: $%.2f\nDistance: %.2f%%",
		p.ID, p.Pair, currentPrice, eval.LiquidationPrice, eval.DistancePercent)
}
