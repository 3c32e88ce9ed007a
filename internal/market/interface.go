// Package market provides read-only market data access. Only candles and
// last prices are exposed; order placement lives outside this system.
package market

import (
	"context"
	"strings"

	coreerrors "github.com/nexusdex/tradecore/internal/errors"
	"github.com/nexusdex/tradecore/pkg/types"
)

// Source provides market data for one venue.
type Source interface {
	// Name returns the venue identifier (e.g. "bybit").
	Name() string

	// Candles fetches up to limit most recent candles for the pair at the
	// given timeframe, sorted oldest first.
	Candles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error)

	// LastPrice returns the last traded price for the pair.
	LastPrice(ctx context.Context, pair string) (float64, error)
}

// Config selects and configures a market data source.
type Config struct {
	Venue     string
	Category  string // "spot", "linear", "inverse"
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool
}

// NewSource creates a market data source for the configured venue. An
// unsupported venue fails fast at construction, never at first use.
func NewSource(cfg Config) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Venue)) {
	case "bybit":
		return NewBybitSource(cfg), nil
	default:
		return nil, coreerrors.NewConfigError("market", "NewSource",
			"unsupported venue '"+cfg.Venue+"' (supported: bybit)")
	}
}
