package position

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusdex/tradecore/internal/logger"
	"github.com/nexusdex/tradecore/internal/notifications"
	"github.com/nexusdex/tradecore/internal/risk"
)

type fakeStore struct {
	mu       sync.Mutex
	saved    []*Position
	balances map[string]float64
}

func newFakeStore(balance float64) *fakeStore {
	return &fakeStore{balances: map[string]float64{"tester": balance}}
}

func (s *fakeStore) SaveTrade(p *Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.saved = append(s.saved, &copied)
	return nil
}

func (s *fakeStore) Balance(owner string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[owner], nil
}

func (s *fakeStore) UpdateBalance(owner string, newBalance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[owner] = newBalance
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	opened   []notifications.OpenedDetails
	closed   []notifications.ClosedDetails
	critical []string
}

func (n *fakeNotifier) NotifyOpened(d notifications.OpenedDetails) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, d)
	return nil
}

func (n *fakeNotifier) NotifyClosed(d notifications.ClosedDetails) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, d)
	return nil
}

func (n *fakeNotifier) NotifyCritical(msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.critical = append(n.critical, msg)
	return nil
}

func (n *fakeNotifier) NotifySummary(string) error { return nil }

func testLimits() risk.Limits {
	limits := risk.DefaultLimits()
	limits.MaxPositionSizePercent = 50
	return limits
}

func newTestManager(t *testing.T, balance float64) (*Manager, *fakeStore, *fakeNotifier, *risk.Manager) {
	t.Helper()

	log, err := logger.New(t.TempDir(), "BTCUSDT")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	store := newFakeStore(balance)
	notifier := &fakeNotifier{}
	riskMgr := risk.NewManager(testLimits(), log)
	return NewManager(riskMgr, store, notifier, log), store, notifier, riskMgr
}

func longRequest() OpenRequest {
	return OpenRequest{
		Owner:      "tester",
		Exchange:   "bybit",
		Pair:       "BTCUSDT",
		Side:       SideLong,
		EntryPrice: 100,
		StopLoss:   95,
		TakeProfit: 110,
		Size:       10,
		Leverage:   1,
		Confidence: 72,
	}
}

func TestManager_OpenApproved(t *testing.T) {
	m, store, notifier, _ := newTestManager(t, 10000)

	pos, decision := m.Open(longRequest(), 10000)

	require.True(t, decision.Approved)
	require.NotNil(t, pos)
	assert.NotEmpty(t, pos.ID)
	assert.Equal(t, StatusOpen, pos.Status)
	assert.Equal(t, 1, m.Count())
	require.Len(t, store.saved, 1)
	assert.Equal(t, pos.ID, store.saved[0].ID)
	require.Len(t, notifier.opened, 1)
	assert.Equal(t, "BTCUSDT", notifier.opened[0].Pair)
}

func TestManager_OpenRejectedCreatesNothing(t *testing.T) {
	m, store, notifier, _ := newTestManager(t, 10000)

	req := longRequest()
	req.Leverage = 50 // over the 10x cap

	pos, decision := m.Open(req, 10000)

	assert.Nil(t, pos)
	assert.False(t, decision.Approved)
	assert.Equal(t, risk.RejectLeverage, decision.Reason)
	assert.Zero(t, m.Count())
	assert.Empty(t, store.saved)
	assert.Empty(t, notifier.opened)
}

func TestEvaluate_LongStopAndTarget(t *testing.T) {
	p := &Position{Side: SideLong, EntryPrice: 100, StopLoss: 95, TakeProfit: 110, Leverage: 1}
	est := LeverageOnlyEstimator{}

	assert.Equal(t, ActionNone, Evaluate(p, 100, est).Action)
	assert.Equal(t, ActionNone, Evaluate(p, 95.01, est).Action)

	eval := Evaluate(p, 95, est)
	assert.Equal(t, ActionClose, eval.Action)
	assert.Equal(t, ReasonStopLoss, eval.Reason)

	eval = Evaluate(p, 110, est)
	assert.Equal(t, ActionClose, eval.Action)
	assert.Equal(t, ReasonTakeProfit, eval.Reason)
}

func TestEvaluate_ShortStopAndTarget(t *testing.T) {
	p := &Position{Side: SideShort, EntryPrice: 100, StopLoss: 105, TakeProfit: 90, Leverage: 1}
	est := LeverageOnlyEstimator{}

	assert.Equal(t, ActionNone, Evaluate(p, 100, est).Action)

	eval := Evaluate(p, 106, est)
	assert.Equal(t, ActionClose, eval.Action)
	assert.Equal(t, ReasonStopLoss, eval.Reason)

	eval = Evaluate(p, 89, est)
	assert.Equal(t, ActionClose, eval.Action)
	assert.Equal(t, ReasonTakeProfit, eval.Reason)
}

func TestEvaluate_LiquidationWarning(t *testing.T) {
	// 10x long from 100 liquidates near 90.
	p := &Position{Side: SideLong, EntryPrice: 100, StopLoss: 80, TakeProfit: 130, Leverage: 10}

	eval := Evaluate(p, 94, LeverageOnlyEstimator{})
	assert.Equal(t, ActionWarnLiquidation, eval.Action)
	assert.InDelta(t, 90.0, eval.LiquidationPrice, 1e-9)
	assert.Less(t, eval.DistancePercent, 5.0)

	// Far from liquidation there is nothing to do.
	assert.Equal(t, ActionNone, Evaluate(p, 99, LeverageOnlyEstimator{}).Action)
}

func TestManager_CheckClosesOnStopLoss(t *testing.T) {
	m, store, notifier, riskMgr := newTestManager(t, 10000)

	pos, decision := m.Open(longRequest(), 10000)
	require.True(t, decision.Approved)

	require.NoError(t, m.Check(pos.ID, 94))

	assert.Zero(t, m.Count())
	assert.Equal(t, 1, riskMgr.ConsecutiveLosses())

	// Settlement: (94-100) * 10 = -60 applied to the balance.
	balance, err := store.Balance("tester")
	require.NoError(t, err)
	assert.InDelta(t, 9940.0, balance, 1e-9)

	require.Len(t, notifier.closed, 1)
	assert.Equal(t, string(ReasonStopLoss), notifier.closed[0].Reason)
	assert.InDelta(t, -60.0, notifier.closed[0].PnL, 1e-9)
}

func TestManager_CheckNoOpInsideBand(t *testing.T) {
	m, _, notifier, _ := newTestManager(t, 10000)

	pos, _ := m.Open(longRequest(), 10000)
	require.NoError(t, m.Check(pos.ID, 100))

	assert.Equal(t, 1, m.Count())
	assert.Empty(t, notifier.closed)
	assert.Empty(t, notifier.critical)
}

func TestManager_CheckWarnsNearLiquidation(t *testing.T) {
	m, _, notifier, _ := newTestManager(t, 10000)

	req := longRequest()
	req.Leverage = 10
	req.StopLoss = 80
	req.Size = 1
	pos, decision := m.Open(req, 10000)
	require.True(t, decision.Approved)

	require.NoError(t, m.Check(pos.ID, 94))

	assert.Equal(t, 1, m.Count(), "warning must not close the position")
	require.Len(t, notifier.critical, 1)
	assert.Contains(t, notifier.critical[0], "LIQUIDATION WARNING")
}

func TestManager_CloseTakeProfitWithLeverage(t *testing.T) {
	m, _, notifier, _ := newTestManager(t, 10000)

	req := longRequest()
	req.Leverage = 5
	req.Size = 1
	pos, decision := m.Open(req, 10000)
	require.True(t, decision.Approved)

	closed, err := m.Close(pos.ID, 110, ReasonTakeProfit)
	require.NoError(t, err)

	// (110-100) * 1 * 5x leverage.
	assert.InDelta(t, 50.0, closed.PnL, 1e-9)
	assert.InDelta(t, 50.0, closed.PnLPercent, 1e-9)
	assert.Equal(t, StatusClosed, closed.Status)
	assert.Equal(t, ReasonTakeProfit, closed.CloseReason)
	require.Len(t, notifier.closed, 1)
}

func TestManager_CloseUnknownID(t *testing.T) {
	m, _, _, _ := newTestManager(t, 10000)

	_, err := m.Close("no-such-position", 100, ReasonManual)
	assert.Error(t, err)
}

func TestManager_CheckUnknownID(t *testing.T) {
	m, _, _, _ := newTestManager(t, 10000)

	assert.Error(t, m.Check("no-such-position", 100))
}

func TestManager_MarkToMarket(t *testing.T) {
	m, _, _, _ := newTestManager(t, 10000)

	pos, _ := m.Open(longRequest(), 10000)

	status, err := m.MarkToMarket(pos.ID, 103)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, status.UnrealizedPnL, 1e-9) // (103-100) * 10
	assert.InDelta(t, 3.0, status.UnrealizedPnLPct, 1e-9)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h 15m", formatDuration(2*time.Hour+15*time.Minute))
	assert.Equal(t, "5m", formatDuration(5*time.Minute))
	assert.Equal(t, "26h 0m", formatDuration(26*time.Hour))
}
