package position

// LiquidationEstimator estimates the price at which a leveraged position
// would be liquidated. Estimates are approximate; venue-accurate margin
// math is out of scope and lives behind this interface.
type LiquidationEstimator interface {
	LiquidationPrice(p *Position) float64
}

// LeverageOnlyEstimator ignores maintenance margin and funding costs:
// Long: entry*(1 - 1/leverage); Short: entry*(1 + 1/leverage).
type LeverageOnlyEstimator struct{}

// LiquidationPrice implements LiquidationEstimator.
func (LeverageOnlyEstimator) LiquidationPrice(p *Position) float64 {
	if p.Leverage <= 1 {
		if p.Side == SideLong {
			return 0
		}
		return 2 * p.EntryPrice
	}
	if p.Side == SideLong {
		return p.EntryPrice * (1 - 1/float64(p.Leverage))
	}
	return p.EntryPrice * (1 + 1/float64(p.Leverage))
}
