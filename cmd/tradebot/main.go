package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexusdex/tradecore/internal/bot"
	"github.com/nexusdex/tradecore/internal/config"
	"github.com/nexusdex/tradecore/internal/monitoring"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting trading core in %s mode", cfg.Environment)

	tradeBot, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Setup HTTP servers
	go setupMonitoringServers(cfg, tradeBot.Health())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tradeBot.Start(ctx); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	// Reset daily risk limits at every UTC midnight.
	go runDailyReset(ctx, tradeBot)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()
	tradeBot.Stop()
	log.Println("Bot stopped successfully")
}

// runDailyReset fires the day rollover at each UTC midnight.
func runDailyReset(ctx context.Context, tradeBot *bot.TradeBot) {
	for {
		now := time.Now().UTC()
		next := now.Truncate(24 * time.Hour).Add(24 * time.Hour)

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
			tradeBot.RolloverDay()
		}
	}
}

func setupMonitoringServers(cfg *config.Config, healthChecker *monitoring.HealthChecker) {
	// Create separate mux for health server
	healthMux := http.NewServeMux()
	healthMux.Handle("/health", healthChecker)

	go func() {
		log.Printf("Starting health server on port %d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.HealthPort), healthMux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting Prometheus server on port %d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), monitoring.NewMetricsHandler()); err != nil {
			log.Printf("Prometheus server error: %v", err)
		}
	}()
}
