package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusdex/tradecore/internal/position"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), 10000)
	require.NoError(t, err)
	return store
}

func testPosition(id string, status position.Status) *position.Position {
	return &position.Position{
		ID:         id,
		Owner:      "tester",
		Exchange:   "bybit",
		Pair:       "BTCUSDT",
		Side:       position.SideLong,
		EntryPrice: 100,
		StopLoss:   95,
		TakeProfit: 110,
		Size:       10,
		Leverage:   1,
		OpenedAt:   time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC),
		Status:     status,
	}
}

func TestFileStore_InitialBalance(t *testing.T) {
	store := newTestStore(t)

	balance, err := store.Balance("tester")
	require.NoError(t, err)
	assert.InDelta(t, 10000.0, balance, 1e-9)
}

func TestFileStore_UpdateBalance(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpdateBalance("tester", 9940))

	balance, err := store.Balance("tester")
	require.NoError(t, err)
	assert.InDelta(t, 9940.0, balance, 1e-9)
}

func TestFileStore_SaveAndListTrades(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveTrade(testPosition("a", position.StatusOpen)))
	require.NoError(t, store.SaveTrade(testPosition("b", position.StatusOpen)))

	open, err := store.ListOpenPositions("tester")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	closed, err := store.ListClosedTrades("tester")
	require.NoError(t, err)
	assert.Empty(t, closed)
}

func TestFileStore_SaveTradeUpdatesInPlace(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveTrade(testPosition("a", position.StatusOpen)))

	done := testPosition("a", position.StatusClosed)
	done.ExitPrice = 110
	done.PnL = 100
	done.CloseReason = position.ReasonTakeProfit
	require.NoError(t, store.SaveTrade(done))

	open, err := store.ListOpenPositions("tester")
	require.NoError(t, err)
	assert.Empty(t, open)

	closed, err := store.ListClosedTrades("tester")
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.InDelta(t, 100.0, closed[0].PnL, 1e-9)
	assert.Equal(t, position.ReasonTakeProfit, closed[0].CloseReason)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir, 10000)
	require.NoError(t, err)
	require.NoError(t, store.SaveTrade(testPosition("a", position.StatusOpen)))
	require.NoError(t, store.UpdateBalance("tester", 9500))

	reopened, err := NewFileStore(dir, 10000)
	require.NoError(t, err)

	balance, err := reopened.Balance("tester")
	require.NoError(t, err)
	assert.InDelta(t, 9500.0, balance, 1e-9)

	open, err := reopened.ListOpenPositions("tester")
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, 10000)
	require.NoError(t, err)

	require.NoError(t, store.SaveTrade(testPosition("a", position.StatusOpen)))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = os.Stat(filepath.Join(dir, "tester_account.json"))
	assert.NoError(t, err)
}

func TestFileStore_OwnersAreIsolated(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpdateBalance("alice", 5000))

	balance, err := store.Balance("tester")
	require.NoError(t, err)
	assert.InDelta(t, 10000.0, balance, 1e-9)
}
