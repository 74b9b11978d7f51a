package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/notifier"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

// tradeAction is the mutation side passed from the ledger.
type tradeAction string

const (
	actionBuy  tradeAction = "buy"
	actionSell tradeAction = "sell"
)

// AlertEmitter decides, after each ledger mutation, whether the wallet's
// activity is notable enough to publish. It only decides whether and what
// to publish; formatting and delivery belong to the notifier channels.
type AlertEmitter struct {
	logger   *zap.Logger
	storage  Storage
	notifier notifier.Notifier

	minClosed  int
	minWinRate float64

	sent uint64
}

func NewAlertEmitter(logger *zap.Logger, storage Storage, n notifier.Notifier, cfg config.TrackerConfig) *AlertEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}

	minClosed := cfg.AlertMinClosed
	if minClosed <= 0 {
		minClosed = 5
	}
	minWinRate := cfg.AlertMinWinRate
	if minWinRate <= 0 {
		minWinRate = 50
	}

	return &AlertEmitter{
		logger:     logger.Named("alerts"),
		storage:    storage,
		notifier:   n,
		minClosed:  minClosed,
		minWinRate: minWinRate,
	}
}

// MaybeAlert publishes a notification when the wallet's refreshed snapshot
// clears the alert thresholds. These are deliberately more lenient than the
// smart-money qualification.
func (ae *AlertEmitter) MaybeAlert(ctx context.Context, action tradeAction, t *Trade, m *WalletMetrics) {
	if ae.notifier == nil || m == nil {
		return
	}
	if m.ClosedTrades < ae.minClosed || m.WinRate < ae.minWinRate {
		return
	}

	// Entry fields for buys; exit fields (zero if absent) for sells.
	amount := t.EntryAmount
	value := t.EntryValue
	if action == actionSell {
		amount = t.ExitAmount
		value = t.ExitValue
	}

	alert := notifier.TradeAlert{
		WalletLabel:   ae.walletLabel(ctx, t.Wallet),
		WalletAddress: t.Wallet,
		Action:        notifier.TradeAction(action),
		TokenMint:     t.Mint,
		TokenSymbol:   t.Symbol,
		Amount:        amount,
		Value:         value,
		WinRate:       m.WinRate,
		TotalRoi:      m.TotalRoi,
		Last30DaysPnl: m.Last30DaysPnl,
		Timestamp:     time.Now(),
	}

	ae.notifier.SendTradeAlert(alert)
	atomic.AddUint64(&ae.sent, 1)

	ae.logger.Info("published trade alert",
		zap.String("wallet", shortID(t.Wallet)),
		zap.String("action", string(action)),
		zap.Float64("winRate", m.WinRate),
		zap.Float64("totalRoi", m.TotalRoi),
	)
}

// SentCount returns the number of alerts published so far.
func (ae *AlertEmitter) SentCount() uint64 {
	return atomic.LoadUint64(&ae.sent)
}

// walletLabel resolves the display label for a wallet, falling back to a
// truncated address when storage has no label or fails.
func (ae *AlertEmitter) walletLabel(ctx context.Context, address string) string {
	if ae.storage == nil {
		return shortID(address)
	}

	label, err := ae.storage.WalletLabel(ctx, address)
	if err != nil {
		ae.logger.Warn("label lookup failed",
			zap.String("wallet", shortID(address)),
			zap.Error(err),
		)
		return shortID(address)
	}
	if label == "" {
		return shortID(address)
	}
	return label
}
