// Package config loads the trading core's configuration from the
// environment, with optional .env file support for local runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	coreerrors "github.com/nexusdex/tradecore/internal/errors"
	"github.com/nexusdex/tradecore/internal/indicators"
	"github.com/nexusdex/tradecore/internal/risk"
	"github.com/nexusdex/tradecore/internal/strategy"
)

type ExchangeConfig struct {
	Venue     string
	Category  string
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool
}

type TradingConfig struct {
	Owner           string
	Pair            string
	Timeframe       string
	Leverage        int
	InitialBalance  float64
	AllowedSessions []string
}

type StrategyConfig struct {
	MinConfidence     float64
	StopATRMultiple   float64
	TargetATRMultiple float64
	Indicators        indicators.Config
}

type MonitoringConfig struct {
	Interval       time.Duration
	PrometheusPort int
	HealthPort     int
}

type NotificationsConfig struct {
	TelegramToken  string
	TelegramChatID string
}

type Config struct {
	Environment string
	LogDir      string
	DataDir     string

	Exchange      ExchangeConfig
	Trading       TradingConfig
	Strategy      StrategyConfig
	Risk          risk.Limits
	Monitoring    MonitoringConfig
	Notifications NotificationsConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	defaults := risk.DefaultLimits()

	return &Config{
		Environment: getEnv("ENV", "development"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		DataDir:     getEnv("DATA_DIR", "data"),

		Exchange: ExchangeConfig{
			Venue:     getEnv("EXCHANGE_VENUE", "bybit"),
			Category:  getEnv("EXCHANGE_CATEGORY", "linear"),
			APIKey:    getEnv("BYBIT_API_KEY", ""),
			APISecret: getEnv("BYBIT_API_SECRET", ""),
			Testnet:   getEnvBool("EXCHANGE_TESTNET", true),
			Demo:      getEnvBool("EXCHANGE_DEMO", false),
		},

		Trading: TradingConfig{
			Owner:           getEnv("TRADING_OWNER", "default"),
			Pair:            getEnv("TRADING_PAIR", "BTCUSDT"),
			Timeframe:       getEnv("TRADING_TIMEFRAME", "15m"),
			Leverage:        getEnvInt("TRADING_LEVERAGE", 1),
			InitialBalance:  getEnvFloat("INITIAL_BALANCE", 10000.0),
			AllowedSessions: getEnvList("ALLOWED_SESSIONS"),
		},

		Strategy: StrategyConfig{
			MinConfidence:     getEnvFloat("MIN_CONFIDENCE", 60.0),
			StopATRMultiple:   getEnvFloat("STOP_ATR_MULTIPLE", 2.0),
			TargetATRMultiple: getEnvFloat("TARGET_ATR_MULTIPLE", 3.0),
			Indicators: indicators.Config{
				RSIPeriod:  getEnvInt("RSI_PERIOD", 14),
				MACDFast:   getEnvInt("MACD_FAST", 12),
				MACDSlow:   getEnvInt("MACD_SLOW", 26),
				MACDSignal: getEnvInt("MACD_SIGNAL", 9),
				BBPeriod:   getEnvInt("BB_PERIOD", 20),
				BBStdDev:   getEnvFloat("BB_STDDEV", 2.0),
				ATRPeriod:  getEnvInt("ATR_PERIOD", 14),
				ADXPeriod:  getEnvInt("ADX_PERIOD", 14),
			},
		},

		Risk: risk.Limits{
			MaxDailyLossPercent:     getEnvFloat("MAX_DAILY_LOSS_PERCENT", defaults.MaxDailyLossPercent),
			MaxPositionSizePercent:  getEnvFloat("MAX_POSITION_SIZE_PERCENT", defaults.MaxPositionSizePercent),
			MaxOpenPositions:        getEnvInt("MAX_OPEN_POSITIONS", defaults.MaxOpenPositions),
			MaxPortfolioHeatPercent: getEnvFloat("MAX_PORTFOLIO_HEAT_PERCENT", defaults.MaxPortfolioHeatPercent),
			MaxDrawdownPercent:      getEnvFloat("MAX_DRAWDOWN_PERCENT", defaults.MaxDrawdownPercent),
			RiskPerTradePercent:     getEnvFloat("RISK_PER_TRADE_PERCENT", defaults.RiskPerTradePercent),
			MaxLeverage:             getEnvInt("MAX_LEVERAGE", defaults.MaxLeverage),
			DailyTradeLimit:         getEnvInt("DAILY_TRADE_LIMIT", defaults.DailyTradeLimit),
		},

		Monitoring: MonitoringConfig{
			Interval:       getEnvDuration("MONITOR_INTERVAL", 10*time.Second),
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 8080),
			HealthPort:     getEnvInt("HEALTH_PORT", 8081),
		},

		Notifications: NotificationsConfig{
			TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
			TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}
}

// Validate rejects configurations the trading core cannot run with.
// Malformed limits are fatal, never silently defaulted.
func (c *Config) Validate() error {
	if c.Trading.Pair == "" {
		return coreerrors.NewConfigError("config", "Validate", "trading pair must not be empty")
	}
	if c.Trading.Leverage < 1 {
		return coreerrors.NewConfigError("config", "Validate", "leverage must be at least 1")
	}
	if c.Trading.InitialBalance <= 0 {
		return coreerrors.NewConfigError("config", "Validate", "initial balance must be positive")
	}
	if c.Strategy.MinConfidence < 0 || c.Strategy.MinConfidence > 100 {
		return coreerrors.NewConfigError("config", "Validate", "min confidence must be between 0 and 100")
	}
	if c.Strategy.StopATRMultiple <= 0 || c.Strategy.TargetATRMultiple <= 0 {
		return coreerrors.NewConfigError("config", "Validate", "ATR multiples must be positive")
	}
	ind := c.Strategy.Indicators
	for _, period := range []int{ind.RSIPeriod, ind.MACDFast, ind.MACDSlow, ind.MACDSignal, ind.BBPeriod, ind.ATRPeriod, ind.ADXPeriod} {
		if period < 1 {
			return coreerrors.NewConfigError("config", "Validate", "indicator periods must be at least 1")
		}
	}
	if ind.BBStdDev <= 0 {
		return coreerrors.NewConfigError("config", "Validate", "bollinger standard deviation must be positive")
	}
	for _, s := range c.Trading.AllowedSessions {
		switch strategy.Session(s) {
		case strategy.SessionAsian, strategy.SessionEuropean, strategy.SessionUS:
		default:
			return coreerrors.NewConfigError("config", "Validate", "unknown trading session: "+s)
		}
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if c.Monitoring.Interval <= 0 {
		return coreerrors.NewConfigError("config", "Validate", "monitor interval must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		parsed, err := time.ParseDuration(val)
		if err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
