// Package bot wires the trading core together: market data in, signals
// composed, risk validated, positions opened and monitored.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nexusdex/tradecore/internal/config"
	"github.com/nexusdex/tradecore/internal/logger"
	"github.com/nexusdex/tradecore/internal/market"
	"github.com/nexusdex/tradecore/internal/monitor"
	"github.com/nexusdex/tradecore/internal/monitoring"
	"github.com/nexusdex/tradecore/internal/notifications"
	"github.com/nexusdex/tradecore/internal/position"
	"github.com/nexusdex/tradecore/internal/reporting"
	"github.com/nexusdex/tradecore/internal/risk"
	"github.com/nexusdex/tradecore/internal/storage"
	"github.com/nexusdex/tradecore/internal/strategy"
)

// candleLimit is how many candles each analysis cycle fetches.
const candleLimit = 200

var timeframeDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
}

// TradeBot runs one pair end to end: an analysis loop on the candle
// timeframe and a faster monitoring loop over the open ledger.
type TradeBot struct {
	cfg      *config.Config
	log      *logger.Logger
	store    storage.Store
	source   market.Source
	composer *strategy.Composer
	riskMgr  *risk.Manager
	ledger   *position.Manager
	monitor  *monitor.Scheduler
	health   *monitoring.HealthChecker
	notifier notifications.Notifier

	mu              sync.Mutex
	dayStartBalance float64
	peakBalance     float64
	currentDay      time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

// New builds a fully wired trading bot from configuration. Construction
// fails fast on invalid config, an unsupported venue or an unusable data
// directory.
func New(cfg *config.Config) (*TradeBot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogDir, cfg.Trading.Pair)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.DataDir, cfg.Trading.InitialBalance)
	if err != nil {
		return nil, err
	}

	source, err := market.NewSource(market.Config{
		Venue:     cfg.Exchange.Venue,
		Category:  cfg.Exchange.Category,
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.APISecret,
		Testnet:   cfg.Exchange.Testnet,
		Demo:      cfg.Exchange.Demo,
	})
	if err != nil {
		return nil, err
	}

	var notifier notifications.Notifier = notifications.Noop{}
	if cfg.Notifications.TelegramToken != "" {
		notifier = notifications.NewTelegramNotifier(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID)
	}

	composerCfg := strategy.DefaultConfig()
	composerCfg.MinConfidence = cfg.Strategy.MinConfidence
	composerCfg.StopATRMultiple = cfg.Strategy.StopATRMultiple
	composerCfg.TargetATRMultiple = cfg.Strategy.TargetATRMultiple
	composerCfg.Indicators = cfg.Strategy.Indicators
	for _, s := range cfg.Trading.AllowedSessions {
		composerCfg.AllowedSessions = append(composerCfg.AllowedSessions, strategy.Session(s))
	}

	riskMgr := risk.NewManager(cfg.Risk, log)
	ledger := position.NewManager(riskMgr, store, notifier, log)
	health := monitoring.NewHealthChecker()

	balance, err := store.Balance(cfg.Trading.Owner)
	if err != nil {
		return nil, err
	}

	bot := &TradeBot{
		cfg:             cfg,
		log:             log,
		store:           store,
		source:          source,
		composer:        strategy.NewComposer(composerCfg),
		riskMgr:         riskMgr,
		ledger:          ledger,
		health:          health,
		notifier:        notifier,
		dayStartBalance: balance,
		peakBalance:     balance,
		currentDay:      time.Now().UTC().Truncate(24 * time.Hour),
		stop:            make(chan struct{}),
	}
	bot.monitor = monitor.NewScheduler(ledger, source, log, health, cfg.Monitoring.Interval)
	return bot, nil
}

// Health exposes the health checker for the HTTP endpoint.
func (b *TradeBot) Health() *monitoring.HealthChecker { return b.health }

// Start launches the monitoring and analysis loops.
func (b *TradeBot) Start(ctx context.Context) error {
	balance, err := b.store.Balance(b.cfg.Trading.Owner)
	if err != nil {
		return err
	}

	reporting.PrintStartupInfo(
		b.source.Name(),
		b.cfg.Trading.Pair,
		b.cfg.Trading.Timeframe,
		b.cfg.Environment,
		b.cfg.Trading.Leverage,
		balance,
	)
	b.log.Status("Bot started: pair=%s timeframe=%s balance=$%.2f",
		b.cfg.Trading.Pair, b.cfg.Trading.Timeframe, balance)

	b.monitor.Start(ctx)

	interval, ok := timeframeDurations[b.cfg.Trading.Timeframe]
	if !ok {
		interval = 15 * time.Minute
	}

	b.wg.Add(1)
	go b.analysisLoop(ctx, interval)
	return nil
}

// Stop shuts both loops down and closes the session log.
func (b *TradeBot) Stop() {
	close(b.stop)
	b.monitor.Stop()
	b.wg.Wait()
	b.log.Status("Bot stopped")
	b.log.Close()
}

func (b *TradeBot) analysisLoop(ctx context.Context, interval time.Duration) {
	defer b.wg.Done()

	// First cycle runs immediately; subsequent ones on the timeframe.
	b.RunAnalysisCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stop:
			return
		case <-ticker.C:
			b.RunAnalysisCycle(ctx)
		}
	}
}

// RunAnalysisCycle fetches candles, composes a signal and, when actionable,
// sizes and opens a position through the risk gate.
func (b *TradeBot) RunAnalysisCycle(ctx context.Context) {
	pair := b.cfg.Trading.Pair

	candles, err := b.source.Candles(ctx, pair, b.cfg.Trading.Timeframe, candleLimit)
	if err != nil {
		b.log.LogError("Candle fetch failed", err)
		monitoring.RecordError("candle_fetch")
		b.health.SetConnected(false)
		return
	}
	if len(candles) == 0 {
		b.log.Warning("Venue returned no candles for %s", pair)
		return
	}
	b.health.SetConnected(true)
	lastClose := candles[len(candles)-1].Close
	monitoring.UpdatePrice(pair, lastClose)

	balance, err := b.store.Balance(b.cfg.Trading.Owner)
	if err != nil {
		b.log.LogError("Balance read failed", err)
		monitoring.RecordError("balance_read")
		return
	}
	b.trackBalance(balance)

	b.mu.Lock()
	dayStart := b.dayStartBalance
	peak := b.peakBalance
	b.mu.Unlock()

	if breached, lossPct := b.riskMgr.CheckDailyLoss(balance, dayStart); breached {
		b.log.Warning("Daily loss limit breached (%.2f%%), no new trades today", lossPct)
		if err := b.notifier.NotifyCritical(fmt.Sprintf(
			"CIRCUIT BREAKER\n\nDaily loss: %.2f%%\nNo new trades until the daily reset.", lossPct)); err != nil {
			b.log.LogError("Failed to send circuit breaker notification", err)
		}
	}
	_, drawdown := b.riskMgr.CheckDrawdown(balance, peak)

	signal := b.composer.Analyze(candles)
	monitoring.UpdateSignalConfidence(pair, signal.Direction.String(), signal.Confidence)
	monitoring.SetPortfolioHeat(risk.PortfolioHeat(b.ledger.OpenFootprints(balance), balance))

	if !signal.Actionable() {
		b.log.Info("No actionable signal: %v", signal.Reasons)
		return
	}
	b.log.Info("Signal: %s confidence=%.1f%% entry=$%.2f reasons=%v",
		signal.Direction, signal.Confidence, signal.EntryPrice, signal.Reasons)

	riskPercent := b.riskMgr.AdaptiveRiskPercent(b.riskMgr.ConsecutiveLosses(), drawdown)
	size, _, err := b.riskMgr.SizePosition(balance, signal.EntryPrice, signal.StopLoss, riskPercent)
	if err != nil {
		b.log.LogError("Position sizing failed", err)
		return
	}

	side := position.SideLong
	if signal.Direction == strategy.DirectionSell {
		side = position.SideShort
	}

	pos, decision := b.ledger.Open(position.OpenRequest{
		Owner:      b.cfg.Trading.Owner,
		Exchange:   b.source.Name(),
		Pair:       pair,
		Side:       side,
		EntryPrice: signal.EntryPrice,
		StopLoss:   signal.StopLoss,
		TakeProfit: signal.TakeProfit,
		Size:       size,
		Leverage:   b.cfg.Trading.Leverage,
		Confidence: signal.Confidence,
	}, balance)
	if pos == nil {
		b.log.Info("Open rejected: %s", decision.Message)
		return
	}
}

// RolloverDay resets the daily risk state at the UTC day boundary and
// prints the previous day's summary.
func (b *TradeBot) RolloverDay() {
	balance, err := b.store.Balance(b.cfg.Trading.Owner)
	if err != nil {
		b.log.LogError("Balance read failed during day rollover", err)
		balance = 0
	}

	b.mu.Lock()
	previousDay := b.currentDay
	dayStart := b.dayStartBalance
	b.currentDay = time.Now().UTC().Truncate(24 * time.Hour)
	b.dayStartBalance = balance
	b.mu.Unlock()

	if trades, err := b.store.ListClosedTrades(b.cfg.Trading.Owner); err != nil {
		b.log.LogError("Failed to load trades for daily summary", err)
	} else {
		var todays []*position.Position
		for _, p := range trades {
			if p.ClosedAt.UTC().Truncate(24 * time.Hour).Equal(previousDay) {
				todays = append(todays, p)
			}
		}
		summary := reporting.BuildDailySummary(previousDay, todays, dayStart, balance)
		reporting.PrintDailySummary(summary)
		if err := b.notifier.NotifySummary(summary.Message()); err != nil {
			b.log.LogError("Failed to send daily summary notification", err)
		}
	}

	b.riskMgr.ResetDaily()
}

// PrintStatus renders the risk report and the open ledger to the console.
func (b *TradeBot) PrintStatus(ctx context.Context) {
	balance, err := b.store.Balance(b.cfg.Trading.Owner)
	if err != nil {
		b.log.LogError("Balance read failed", err)
		return
	}

	b.mu.Lock()
	dayStart := b.dayStartBalance
	peak := b.peakBalance
	b.mu.Unlock()

	open := b.ledger.ListOpen()
	reporting.PrintRiskStatus(b.riskMgr.Status(balance, dayStart, peak, b.ledger.OpenFootprints(balance)))

	var statuses []position.PositionStatus
	for _, p := range open {
		price, err := b.source.LastPrice(ctx, p.Pair)
		if err != nil {
			continue
		}
		if st, err := b.ledger.MarkToMarket(p.ID, price); err == nil {
			statuses = append(statuses, *st)
		}
	}
	reporting.PrintOpenPositions(statuses)
}

// ExportTrades writes the closed trade history to an Excel workbook.
func (b *TradeBot) ExportTrades(path string) error {
	trades, err := b.store.ListClosedTrades(b.cfg.Trading.Owner)
	if err != nil {
		return err
	}
	return reporting.NewExcelReporter().WriteTradesXLSX(trades, path)
}

func (b *TradeBot) trackBalance(balance float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if balance > b.peakBalance {
		b.peakBalance = balance
	}
}
