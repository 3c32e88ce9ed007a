package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Position metrics
	positionsOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradecore_positions_opened_total",
			Help: "Total number of positions opened",
		},
		[]string{"pair", "side"},
	)

	positionsClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradecore_positions_closed_total",
			Help: "Total number of positions closed",
		},
		[]string{"pair", "reason"},
	)

	openPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradecore_open_positions",
			Help: "Number of currently open positions",
		},
	)

	// Risk metrics
	riskRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradecore_risk_rejections_total",
			Help: "Total number of trades rejected by risk validation",
		},
		[]string{"reason"},
	)

	portfolioHeat = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradecore_portfolio_heat_percent",
			Help: "Total capital at risk across open positions as percent of balance",
		},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tradecore_current_price",
			Help: "Last observed price of trading pair",
		},
		[]string{"pair"},
	)

	// Strategy metrics
	signalConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tradecore_signal_confidence",
			Help: "Confidence of the last composed signal",
		},
		[]string{"pair", "direction"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradecore_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(positionsOpenedTotal)
	prometheus.MustRegister(positionsClosedTotal)
	prometheus.MustRegister(openPositions)
	prometheus.MustRegister(riskRejectionsTotal)
	prometheus.MustRegister(portfolioHeat)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(signalConfidence)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordPositionOpened records an opened position
func RecordPositionOpened(pair, side string) {
	positionsOpenedTotal.WithLabelValues(pair, side).Inc()
}

// RecordPositionClosed records a closed position
func RecordPositionClosed(pair, reason string) {
	positionsClosedTotal.WithLabelValues(pair, reason).Inc()
}

// SetOpenPositions updates the open position count gauge
func SetOpenPositions(count int) {
	openPositions.Set(float64(count))
}

// RecordRiskRejection records a trade rejected by risk validation
func RecordRiskRejection(reason string) {
	riskRejectionsTotal.WithLabelValues(reason).Inc()
}

// SetPortfolioHeat updates the portfolio heat gauge
func SetPortfolioHeat(percent float64) {
	portfolioHeat.Set(percent)
}

// UpdatePrice updates the current price metric
func UpdatePrice(pair string, price float64) {
	currentPrice.WithLabelValues(pair).Set(price)
}

// UpdateSignalConfidence updates the signal confidence metric
func UpdateSignalConfidence(pair, direction string, confidence float64) {
	signalConfidence.WithLabelValues(pair, direction).Set(confidence)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
