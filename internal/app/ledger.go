package app

import (
	"context"
	"sync"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

// Ledger owns every trade record and metrics snapshot, keyed by wallet.
// It is the only component that mutates trades; all collaborators are
// injected so instances are isolated per test.
type Ledger struct {
	logger   *zap.Logger
	oracle   PriceOracle
	profiler Profiler
	alerts   *AlertEmitter

	profileMinClosed int
	profileTimeout   time.Duration

	now func() time.Time

	mu      sync.RWMutex
	trades  map[string][]*Trade
	metrics map[string]*WalletMetrics
	nextID  int64
}

func NewLedger(
	logger *zap.Logger,
	oracle PriceOracle,
	profiler Profiler,
	alerts *AlertEmitter,
	cfg config.TrackerConfig,
) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}

	profileMinClosed := cfg.ProfileMinClosed
	if profileMinClosed <= 0 {
		profileMinClosed = 3
	}
	profileTimeout := cfg.ProfileTimeout
	if profileTimeout <= 0 {
		profileTimeout = 15 * time.Second
	}

	return &Ledger{
		logger:           logger.Named("ledger"),
		oracle:           oracle,
		profiler:         profiler,
		alerts:           alerts,
		profileMinClosed: profileMinClosed,
		profileTimeout:   profileTimeout,
		now:              time.Now,
		trades:           make(map[string][]*Trade),
		metrics:          make(map[string]*WalletMetrics),
	}
}

// RecordBuy appends a new open trade for the wallet. A price of 0 means
// "not supplied" and is resolved via the oracle; if the oracle has nothing,
// the trade is still recorded with price 0 rather than rejected.
func (l *Ledger) RecordBuy(ctx context.Context, wallet, mint, symbol string, amount, usdValue, price float64) {
	if price <= 0 {
		resolved, resolvedSymbol := l.resolvePrice(ctx, mint)
		price = resolved
		if symbol == "" {
			symbol = resolvedSymbol
		}
	}

	l.mu.Lock()
	l.nextID++
	t := &Trade{
		ID:          l.nextID,
		Wallet:      wallet,
		Mint:        mint,
		Symbol:      symbol,
		EntryPrice:  price,
		EntryAmount: amount,
		EntryValue:  usdValue,
		EntryTime:   l.now(),
		Status:      StatusOpen,
	}
	l.trades[wallet] = append(l.trades[wallet], t)
	snapshot, needProfile := computeMetrics(wallet, l.trades[wallet], l.now(), l.profileMinClosed)
	l.metrics[wallet] = snapshot
	l.mu.Unlock()

	l.logger.Debug("recorded buy",
		zap.String("wallet", shortID(wallet)),
		zap.String("mint", shortID(mint)),
		zap.Float64("amount", amount),
		zap.Float64("usdValue", usdValue),
	)

	l.afterMutation(ctx, actionBuy, t, snapshot, needProfile)
}

// RecordSell closes the first open trade for (wallet, mint) in insertion
// order. With no open trade the call is a no-op, not an error: no mutation,
// no alert, only a diagnostic log line.
func (l *Ledger) RecordSell(ctx context.Context, wallet, mint string, amount, usdValue, price float64) {
	if price <= 0 {
		price, _ = l.resolvePrice(ctx, mint)
	}

	l.mu.Lock()
	var t *Trade
	for _, candidate := range l.trades[wallet] {
		if candidate.Status == StatusOpen && candidate.Mint == mint {
			t = candidate
			break
		}
	}
	if t == nil {
		l.mu.Unlock()
		l.logger.Debug("sell with no matching open trade, ignoring",
			zap.String("wallet", shortID(wallet)),
			zap.String("mint", shortID(mint)),
		)
		return
	}

	now := l.now()
	t.ExitPrice = price
	t.ExitAmount = amount
	t.ExitValue = usdValue
	t.ExitTime = now
	t.ProfitLoss = usdValue - t.EntryValue
	if t.EntryPrice > 0 {
		t.ProfitLossPercent = (price - t.EntryPrice) / t.EntryPrice * 100
	}
	// Zero P&L counts as a loss for win-rate purposes.
	t.IsWin = t.ProfitLoss > 0
	t.HoldHours = now.Sub(t.EntryTime).Hours()
	t.Status = StatusClosed
	t.Unrealized = nil

	snapshot, needProfile := computeMetrics(wallet, l.trades[wallet], now, l.profileMinClosed)
	l.metrics[wallet] = snapshot
	l.mu.Unlock()

	l.logger.Debug("recorded sell",
		zap.String("wallet", shortID(wallet)),
		zap.String("mint", shortID(mint)),
		zap.Float64("profitLoss", t.ProfitLoss),
		zap.Bool("isWin", t.IsWin),
	)

	l.afterMutation(ctx, actionSell, t, snapshot, needProfile)
}

// Metrics returns the last computed snapshot for a wallet. ok is false only
// for a wallet that was never recorded; a wallet with zero closed trades
// returns an all-zero snapshot, not absent.
func (l *Ledger) Metrics(wallet string) (*WalletMetrics, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.metrics[wallet]
	return m, ok
}

// AllMetrics returns the current snapshot of every known wallet.
func (l *Ledger) AllMetrics() []*WalletMetrics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*WalletMetrics, 0, len(l.metrics))
	for _, m := range l.metrics {
		out = append(out, m)
	}
	return out
}

// Trades returns value copies of a wallet's trades, in insertion order.
func (l *Ledger) Trades(wallet string) []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Trade, 0, len(l.trades[wallet]))
	for _, t := range l.trades[wallet] {
		out = append(out, *t)
	}
	return out
}

// WalletCount returns the number of wallets with at least one trade.
func (l *Ledger) WalletCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// OpenPosition identifies one open trade for the refresher.
type OpenPosition struct {
	Wallet      string
	TradeID     int64
	Mint        string
	EntryPrice  float64
	EntryAmount float64
	EntryValue  float64
}

// OpenPositions lists every open trade across every wallet.
func (l *Ledger) OpenPositions() []OpenPosition {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []OpenPosition
	for wallet, trades := range l.trades {
		for _, t := range trades {
			if t.Status != StatusOpen {
				continue
			}
			out = append(out, OpenPosition{
				Wallet:      wallet,
				TradeID:     t.ID,
				Mint:        t.Mint,
				EntryPrice:  t.EntryPrice,
				EntryAmount: t.EntryAmount,
				EntryValue:  t.EntryValue,
			})
		}
	}
	return out
}

// AnnotateOpenTrade attaches a fresh unrealized-P&L annotation to an open
// trade as a whole-record replace. Returns false if the trade is gone or no
// longer open; the annotation is advisory and staleness is tolerated.
func (l *Ledger) AnnotateOpenTrade(wallet string, tradeID int64, price float64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.trades[wallet] {
		if t.ID != tradeID {
			continue
		}
		if t.Status != StatusOpen || price <= 0 || t.EntryPrice <= 0 {
			return false
		}
		t.Unrealized = &Unrealized{
			Pnl:          t.EntryAmount*price - t.EntryValue,
			PnlPercent:   (price - t.EntryPrice) / t.EntryPrice * 100,
			CurrentPrice: price,
			UpdatedAt:    now,
		}
		return true
	}
	return false
}

// resolvePrice looks the mint up on the oracle, degrading to price 0 on any
// failure or absence.
func (l *Ledger) resolvePrice(ctx context.Context, mint string) (float64, string) {
	if l.oracle == nil {
		return 0, ""
	}

	data, err := l.oracle.GetTokenData(ctx, mint)
	if err != nil {
		l.logger.Warn("price lookup failed, recording with price 0",
			zap.String("mint", shortID(mint)),
			zap.Error(err),
		)
		return 0, ""
	}
	if data == nil {
		l.logger.Debug("no price data for mint",
			zap.String("mint", shortID(mint)),
		)
		return 0, ""
	}
	return data.PriceUsd, data.Symbol
}

// afterMutation runs the alert check and, past the closed-trade threshold,
// kicks off an asynchronous profile rebuild. Neither can fail the caller.
func (l *Ledger) afterMutation(ctx context.Context, action tradeAction, t *Trade, snapshot *WalletMetrics, needProfile bool) {
	if l.alerts != nil {
		l.alerts.MaybeAlert(ctx, action, t, snapshot)
	}

	if needProfile && l.profiler != nil {
		wallet := t.Wallet
		go func() {
			genCtx, cancel := context.WithTimeout(context.Background(), l.profileTimeout)
			defer cancel()
			if err := l.profiler.GenerateProfile(genCtx, wallet); err != nil {
				l.logger.Warn("profile rebuild failed",
					zap.String("wallet", shortID(wallet)),
					zap.Error(err),
				)
			}
		}()
	}
}
