package strategy

import (
	"time"

	"github.com/nexusdex/tradecore/internal/indicators"
	"github.com/nexusdex/tradecore/pkg/types"
)

// MinCandles is the floor on the candle window the composer will analyze.
// The effective minimum can be higher when a configured indicator needs a
// longer warm-up; see Composer.MinWindow.
const MinCandles = 50

// weakTrendADX is the ADX level below which rule confidences are damped.
const weakTrendADX = 25.0

// weakTrendDamping multiplies rule confidences when the trend is weak.
const weakTrendDamping = 0.8

// Config holds the tunable parameters of the signal composer.
type Config struct {
	MinConfidence     float64
	StopATRMultiple   float64
	TargetATRMultiple float64
	AllowedSessions   []Session
	Indicators        indicators.Config
}

// DefaultConfig returns the standard composer parameters: 60% minimum
// confidence, 2x ATR stop, 3x ATR target, all sessions allowed.
func DefaultConfig() Config {
	return Config{
		MinConfidence:     60.0,
		StopATRMultiple:   2.0,
		TargetATRMultiple: 3.0,
		Indicators:        indicators.DefaultConfig(),
	}
}

// Composer turns an indicator snapshot into a Buy/Sell/Hold recommendation
// with a confidence score. It is stateless: identical inputs and clock
// always produce identical signals.
type Composer struct {
	cfg Config
	now func() time.Time
}

// NewComposer creates a composer with the given configuration.
func NewComposer(cfg Config) *Composer {
	return &Composer{cfg: cfg, now: time.Now}
}

// WithClock replaces the composer's clock, used by the session filter.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// MinWindow returns the smallest candle window Analyze accepts: MinCandles,
// or twice the slowest configured indicator period when that is longer. A
// window of at least MinWindow candles always computes a full snapshot.
func (c *Composer) MinWindow() int {
	min := MinCandles
	periods := []int{
		c.cfg.Indicators.RSIPeriod,
		c.cfg.Indicators.MACDSlow,
		c.cfg.Indicators.BBPeriod,
		c.cfg.Indicators.ATRPeriod,
		c.cfg.Indicators.ADXPeriod,
	}
	for _, p := range periods {
		if 2*p > min {
			min = 2 * p
		}
	}
	return min
}

// rule is one indicator vote with its base confidence.
type rule struct {
	direction  Direction
	reason     string
	confidence float64
}

// Analyze evaluates the candle window and returns one signal. Too little
// data, an off-session window, a rule tie or a sub-threshold confidence
// all yield Hold; Analyze never fails.
func (c *Composer) Analyze(candles []types.Candle) *Signal {
	now := c.now()

	if !sessionAllowed(c.cfg.AllowedSessions, now) {
		return holdSignal(now, ReasonOffSession)
	}

	if len(candles) < c.MinWindow() {
		return holdSignal(now, ReasonNoClearSignal)
	}

	snapshot, err := indicators.Compute(candles, c.cfg.Indicators)
	if err != nil {
		return holdSignal(now, ReasonNoClearSignal)
	}

	currentPrice := candles[len(candles)-1].Close
	rules := evaluateRules(snapshot, currentPrice)

	// Weak trend: damp every rule's confidence.
	if snapshot.ADX <= weakTrendADX {
		for i := range rules {
			rules[i].confidence *= weakTrendDamping
		}
	}

	var buys, sells []rule
	for _, r := range rules {
		switch r.direction {
		case DirectionBuy:
			buys = append(buys, r)
		case DirectionSell:
			sells = append(sells, r)
		}
	}

	var winners []rule
	var direction Direction
	switch {
	case len(buys) > len(sells):
		winners, direction = buys, DirectionBuy
	case len(sells) > len(buys):
		winners, direction = sells, DirectionSell
	default:
		return holdSignal(now, ReasonNoClearSignal)
	}

	confidence := 0.0
	reasons := make([]string, 0, len(winners))
	for _, r := range winners {
		confidence += r.confidence
		reasons = append(reasons, r.reason)
	}
	confidence /= float64(len(winners))

	if confidence < c.cfg.MinConfidence {
		return holdSignal(now, ReasonNoClearSignal)
	}

	signal := &Signal{
		Direction:  direction,
		Confidence: confidence,
		EntryPrice: currentPrice,
		Reasons:    reasons,
		Snapshot:   snapshot,
		Timestamp:  now,
	}

	if direction == DirectionBuy {
		signal.StopLoss = currentPrice - c.cfg.StopATRMultiple*snapshot.ATR
		signal.TakeProfit = currentPrice + c.cfg.TargetATRMultiple*snapshot.ATR
	} else {
		signal.StopLoss = currentPrice + c.cfg.StopATRMultiple*snapshot.ATR
		signal.TakeProfit = currentPrice - c.cfg.TargetATRMultiple*snapshot.ATR
	}

	return signal
}

// evaluateRules produces the independent indicator votes.
func evaluateRules(s *indicators.Snapshot, price float64) []rule {
	var rules []rule

	if s.RSI < 30 {
		rules = append(rules, rule{DirectionBuy, ReasonRSIOversold, 70})
	} else if s.RSI > 70 {
		rules = append(rules, rule{DirectionSell, ReasonRSIOverbought, 70})
	}

	if s.MACDLine > s.MACDSignal && s.MACDHist > 0 {
		rules = append(rules, rule{DirectionBuy, ReasonMACDBullish, 65})
	} else if s.MACDLine < s.MACDSignal && s.MACDHist < 0 {
		rules = append(rules, rule{DirectionSell, ReasonMACDBearish, 65})
	}

	if price < s.BBLower {
		rules = append(rules, rule{DirectionBuy, ReasonBBLower, 60})
	} else if price > s.BBUpper {
		rules = append(rules, rule{DirectionSell, ReasonBBUpper, 60})
	}

	return rules
}

func holdSignal(ts time.Time, reason string) *Signal {
	return &Signal{
		Direction: DirectionHold,
		Reasons:   []string{reason},
		Timestamp: ts,
	}
}
