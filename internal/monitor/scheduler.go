// Package monitor drives the periodic price checks that move open positions
// through their lifecycle. One scheduler watches the whole ledger.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/nexusdex/tradecore/internal/logger"
	"github.com/nexusdex/tradecore/internal/monitoring"
	"github.com/nexusdex/tradecore/internal/position"
)

// DefaultInterval is the spacing between monitoring cycles.
const DefaultInterval = 10 * time.Second

// PriceSource provides the last traded price for a pair.
type PriceSource interface {
	LastPrice(ctx context.Context, pair string) (float64, error)
}

// Scheduler runs the monitoring loop: every interval it snapshots the open
// ledger, fetches one price per distinct pair and evaluates each position.
// Cycles never overlap; if a cycle overruns the interval the missed tick is
// dropped, not queued.
type Scheduler struct {
	interval  time.Duration
	positions *position.Manager
	prices    PriceSource
	log       *logger.Logger
	health    *monitoring.HealthChecker
	clock     Clock

	mu        sync.Mutex
	running   bool
	stop      chan struct{}
	done      chan struct{}
	lastPrice float64
}

// NewScheduler creates a monitoring scheduler. A non-positive interval
// falls back to DefaultInterval.
func NewScheduler(positions *position.Manager, prices PriceSource, log *logger.Logger, health *monitoring.HealthChecker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval:  interval,
		positions: positions,
		prices:    prices,
		log:       log,
		health:    health,
		clock:     realClock{},
	}
}

// WithClock replaces the scheduler's clock; used by tests.
func (s *Scheduler) WithClock(clock Clock) *Scheduler {
	s.clock = clock
	return s
}

// Start launches the monitoring loop. Starting a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	s.log.Info("Position monitor started (interval: %v)", s.interval)
	go s.loop(ctx, s.stop, s.done)
}

// Stop shuts the loop down and waits for any in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	s.log.Info("Position monitor stopped")
}

func (s *Scheduler) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C():
			s.CheckOnce(ctx)
			// Drop the tick that may have accumulated during a slow cycle.
			select {
			case <-ticker.C():
			default:
			}
		}
	}
}

// CheckOnce runs a single monitoring cycle. A failed price fetch skips that
// pair's positions and leaves the rest of the cycle intact.
func (s *Scheduler) CheckOnce(ctx context.Context) {
	s.health.ResetFailures()

	open := s.positions.ListOpen()
	if len(open) == 0 {
		s.health.RecordCheck(s.price())
		return
	}

	priceByPair := make(map[string]float64)
	for _, p := range open {
		price, ok := priceByPair[p.Pair]
		if !ok {
			fetched, err := s.prices.LastPrice(ctx, p.Pair)
			if err != nil {
				s.log.LogError("Price fetch failed for "+p.Pair, err)
				monitoring.RecordError("price_fetch")
				s.health.RecordFailure("price fetch failed for " + p.Pair + ": " + err.Error())
				s.health.SetConnected(false)
				priceByPair[p.Pair] = -1
				continue
			}
			price = fetched
			priceByPair[p.Pair] = price
			s.health.SetConnected(true)
			monitoring.UpdatePrice(p.Pair, price)
			s.setPrice(price)
		}
		if price <= 0 {
			continue
		}

		if err := s.positions.Check(p.ID, price); err != nil {
			s.log.LogError("Position check failed for "+p.ID, err)
			monitoring.RecordError("position_check")
		}
	}

	s.health.RecordCheck(s.price())
}

func (s *Scheduler) price() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrice
}

func (s *Scheduler) setPrice(price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPrice = price
}
