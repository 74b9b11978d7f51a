package notifier

import (
	"time"
)

// TradeAction is the side of the trade that triggered the alert.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// TradeAlert contains all the data needed for a notable-activity notification.
type TradeAlert struct {
	// Wallet info
	WalletLabel   string
	WalletAddress string

	// Trade info
	Action      TradeAction
	TokenMint   string
	TokenSymbol string
	Amount      float64 // Token amount (entry for buys, exit for sells)
	Value       float64 // Quote-currency value (entry for buys, exit for sells)

	// Metrics excerpt at the time of the trade
	WinRate       float64 // Percent
	TotalRoi      float64 // Percent
	Last30DaysPnl float64

	Timestamp time.Time
}

// Notifier is the interface for sending trade alerts to delivery channels.
type Notifier interface {
	// SendTradeAlert sends a trade alert notification.
	SendTradeAlert(alert TradeAlert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier with the given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	// Filter out nil notifiers
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendTradeAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendTradeAlert(alert TradeAlert) {
	for _, n := range m.notifiers {
		n.SendTradeAlert(alert)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
