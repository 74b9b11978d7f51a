package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher periodically annotates every open trade with unrealized P&L
// from current market prices. It only touches transient fields and never
// transitions a trade to closed.
type Refresher struct {
	logger *zap.Logger
	ledger *Ledger
	oracle PriceOracle

	interval      time.Duration
	lookupTimeout time.Duration
}

func NewRefresher(logger *zap.Logger, ledger *Ledger, oracle PriceOracle, interval, lookupTimeout time.Duration) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 10 * time.Second
	}

	return &Refresher{
		logger:        logger.Named("refresher"),
		ledger:        ledger,
		oracle:        oracle,
		interval:      interval,
		lookupTimeout: lookupTimeout,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("position refresher started", zap.Duration("interval", r.interval))

	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			r.logger.Info("position refresher stopped")
			return
		}
	}
}

// Sweep walks every open trade and refreshes its unrealized annotation.
// One token's lookup failure is logged and never aborts the rest of the
// sweep; the next cycle is the retry mechanism.
func (r *Refresher) Sweep(ctx context.Context) {
	positions := r.ledger.OpenPositions()
	if len(positions) == 0 {
		return
	}

	updated := 0
	failed := 0
	for _, pos := range positions {
		if ctx.Err() != nil {
			return
		}
		if r.refreshOne(ctx, pos) {
			updated++
		} else {
			failed++
		}
	}

	r.logger.Debug("refresh sweep complete",
		zap.Int("openPositions", len(positions)),
		zap.Int("updated", updated),
		zap.Int("skipped", failed),
	)
}

func (r *Refresher) refreshOne(ctx context.Context, pos OpenPosition) bool {
	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	data, err := r.oracle.GetTokenData(lookupCtx, pos.Mint)
	if err != nil {
		r.logger.Warn("price refresh failed for token",
			zap.String("wallet", shortID(pos.Wallet)),
			zap.String("mint", shortID(pos.Mint)),
			zap.Error(err),
		)
		return false
	}
	if data == nil || data.PriceUsd <= 0 || pos.EntryPrice <= 0 {
		return false
	}

	return r.ledger.AnnotateOpenTrade(pos.Wallet, pos.TradeID, data.PriceUsd, time.Now())
}
