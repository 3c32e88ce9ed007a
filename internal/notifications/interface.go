// Package notifications defines the fire-and-forget alerting collaborator.
// Failures are logged by callers and never block a position transition.
package notifications

// OpenedDetails describes a freshly opened position.
type OpenedDetails struct {
	Exchange   string
	Pair       string
	Side       string
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Size       float64
	Leverage   int
	Confidence float64
}

// ClosedDetails describes a just-closed position.
type ClosedDetails struct {
	Exchange   string
	Pair       string
	Side       string
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	PnLPercent float64
	Reason     string
	Duration   string
}

// Notifier sends trading alerts to an external channel.
type Notifier interface {
	NotifyOpened(details OpenedDetails) error
	NotifyClosed(details ClosedDetails) error
	NotifyCritical(message string) error
	NotifySummary(message string) error
}

// Noop is a Notifier that discards everything; used when no channel is
// configured.
type Noop struct{}

func (Noop) NotifyOpened(OpenedDetails) error { return nil }
func (Noop) NotifyClosed(ClosedDetails) error { return nil }
func (Noop) NotifyCritical(string) error      { return nil }
func (Noop) NotifySummary(string) error       { return nil }
