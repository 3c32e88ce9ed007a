package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusdex/tradecore/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("DATA_DIR", t.TempDir())
	return config.Load()
}

func TestNew_WiresEverything(t *testing.T) {
	tradeBot, err := New(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, tradeBot.Health())
	tradeBot.log.Close()
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trading.Leverage = 0

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_RejectsUnsupportedVenue(t *testing.T) {
	cfg := testConfig(t)
	cfg.Exchange.Venue = "hyperliquid"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestTimeframeDurations(t *testing.T) {
	assert.Equal(t, 15*time.Minute, timeframeDurations["15m"])
	assert.Equal(t, time.Hour, timeframeDurations["1h"])
	assert.Equal(t, 24*time.Hour, timeframeDurations["1d"])
}
