// Package storage defines the persistence collaborator for trades and
// balances. Schema ownership lives outside the trading core; the file
// store here backs paper trading.
package storage

import "github.com/nexusdex/tradecore/internal/position"

// Store persists trades and account balances around position transitions.
type Store interface {
	// SaveTrade persists a newly opened or just-closed position.
	SaveTrade(p *position.Position) error

	// ListOpenPositions returns the open positions recorded for an owner.
	ListOpenPositions(owner string) ([]*position.Position, error)

	// ListClosedTrades returns the closed trades recorded for an owner.
	ListClosedTrades(owner string) ([]*position.Position, error)

	// Balance returns the current balance for an owner.
	Balance(owner string) (float64, error)

	// UpdateBalance sets a new balance for an owner.
	UpdateBalance(owner string, newBalance float64) error
}
