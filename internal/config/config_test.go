package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "bybit", cfg.Exchange.Venue)
	assert.Equal(t, "BTCUSDT", cfg.Trading.Pair)
	assert.Equal(t, "15m", cfg.Trading.Timeframe)
	assert.InDelta(t, 10000.0, cfg.Trading.InitialBalance, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Monitoring.Interval)
	assert.InDelta(t, 5.0, cfg.Risk.MaxDailyLossPercent, 1e-9)
	assert.InDelta(t, 60.0, cfg.Strategy.MinConfidence, 1e-9)
	assert.InDelta(t, 2.0, cfg.Strategy.StopATRMultiple, 1e-9)
	assert.Equal(t, 14, cfg.Strategy.Indicators.RSIPeriod)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRADING_PAIR", "ETHUSDT")
	t.Setenv("TRADING_LEVERAGE", "3")
	t.Setenv("MAX_DAILY_LOSS_PERCENT", "2.5")
	t.Setenv("MONITOR_INTERVAL", "5s")
	t.Setenv("ALLOWED_SESSIONS", "asian, us")
	t.Setenv("MIN_CONFIDENCE", "70")
	t.Setenv("RSI_PERIOD", "21")

	cfg := Load()

	assert.Equal(t, "ETHUSDT", cfg.Trading.Pair)
	assert.Equal(t, 3, cfg.Trading.Leverage)
	assert.InDelta(t, 2.5, cfg.Risk.MaxDailyLossPercent, 1e-9)
	assert.Equal(t, 5*time.Second, cfg.Monitoring.Interval)
	assert.Equal(t, []string{"asian", "us"}, cfg.Trading.AllowedSessions)
	assert.InDelta(t, 70.0, cfg.Strategy.MinConfidence, 1e-9)
	assert.Equal(t, 21, cfg.Strategy.Indicators.RSIPeriod)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("TRADING_LEVERAGE", "three")

	cfg := Load()
	assert.Equal(t, 1, cfg.Trading.Leverage)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config { return Load() }

	cfg := base()
	cfg.Trading.Pair = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Trading.Leverage = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Trading.InitialBalance = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Trading.AllowedSessions = []string{"lunar"}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Risk.MaxDailyLossPercent = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Risk.MaxOpenPositions = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Strategy.MinConfidence = 120
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Strategy.StopATRMultiple = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Strategy.Indicators.RSIPeriod = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Monitoring.Interval = 0
	require.Error(t, cfg.Validate())
}
