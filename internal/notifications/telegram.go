package notifications

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TelegramNotifier sends alerts to a Telegram chat through the Bot API.
type TelegramNotifier struct {
	token  string
	chatID string
}

// NewTelegramNotifier creates a Telegram notifier.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
	}
}

// NotifyOpened sends a trade-opened alert.
func (t *TelegramNotifier) NotifyOpened(d OpenedDetails) error {
	message := fmt.Sprintf(
		"🟢 *TRADE OPENED*\n\n"+
			"Exchange: %s\nPair: %s\nSide: %s\n"+
			"Entry: $%.2f\nStop Loss: $%.2f\nTake Profit: $%.2f\n"+
			"Size: %.6f\nLeverage: %dx\nConfidence: %.1f%%",
		d.Exchange, d.Pair, d.Side,
		d.EntryPrice, d.StopLoss, d.TakeProfit,
		d.Size, d.Leverage, d.Confidence,
	)
	return t.send(message)
}

// NotifyClosed sends a trade-closed alert.
func (t *TelegramNotifier) NotifyClosed(d ClosedDetails) error {
	header := "🔴 *TRADE CLOSED*"
	switch d.Reason {
	case "TAKE_PROFIT":
		header = "🎯 *TAKE PROFIT*"
	case "STOP_LOSS":
		header = "🛑 *STOP LOSS*"
	}

	message := fmt.Sprintf(
		"%s\n\n"+
			"Pair: %s\nSide: %s\n"+
			"Entry: $%.2f\nExit: $%.2f\n"+
			"P&L: $%.2f (%+.2f%%)\n"+
			"Reason: %s\nDuration: %s",
		header,
		d.Pair, d.Side,
		d.EntryPrice, d.ExitPrice,
		d.PnL, d.PnLPercent,
		d.Reason, d.Duration,
	)
	return t.send(message)
}

// NotifyCritical sends a critical alert.
func (t *TelegramNotifier) NotifyCritical(message string) error {
	return t.send("🚨 *CRITICAL*\n\n" + message)
}

// NotifySummary sends an end-of-day report.
func (t *TelegramNotifier) NotifySummary(message string) error {
	return t.send("📊 *DAILY SUMMARY*\n\n" + message)
}

func (t *TelegramNotifier) send(text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	data := url.Values{}
	data.Set("chat_id", t.chatID)
	data.Set("text", text)
	data.Set("parse_mode", "Markdown")

	resp, err := http.Post(apiURL, "application/x-www-form-urlencoded",
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
