package app

import (
	"context"
	"encoding/json"
	"time"

	clts "github.com/basel95f-code/solana-memecoin-bot-sub005/clients"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/chainstream"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

// Runner wires the ledger core to its collaborators and drives the swap
// stream, the position refresher and the stats server until shutdown.
type Runner struct {
	logger  *zap.Logger
	clients *clts.Clients
	cfg     *config.Config

	watchlist   *Watchlist
	profiler    *WalletProfiler
	alerts      *AlertEmitter
	ledger      *Ledger
	leaderboard *Leaderboard
	comparator  *Comparator
	refresher   *Refresher
	statsServer *StatsServer
}

func NewRunner(clients *clts.Clients, cfg *config.Config) *Runner {
	logger := clients.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	watchlist := NewWatchlist(logger)
	alerts := NewAlertEmitter(logger, watchlist, clients.Notifier, cfg.Tracker)

	// The profiler reads the ledger and the ledger dispatches to the
	// profiler; the ledger is built first and the profiler attached after.
	ledger := NewLedger(logger, clients.PriceAPI, nil, alerts, cfg.Tracker)
	profiler := NewWalletProfiler(logger, ledger)
	ledger.profiler = profiler

	leaderboard := NewLeaderboard(logger, ledger, watchlist, cfg.Tracker)
	comparator := NewComparator(logger, ledger, leaderboard, profiler)
	refresher := NewRefresher(logger, ledger, clients.PriceAPI, cfg.Tracker.RefreshInterval, cfg.Tracker.LookupTimeout)

	var statsServer *StatsServer
	if cfg.HealthServer.Enabled {
		statsServer = NewStatsServer(logger, cfg.HealthServer.Addr, ledger, leaderboard, alerts)
	}

	return &Runner{
		logger:      logger,
		clients:     clients,
		cfg:         cfg,
		watchlist:   watchlist,
		profiler:    profiler,
		alerts:      alerts,
		ledger:      ledger,
		leaderboard: leaderboard,
		comparator:  comparator,
		refresher:   refresher,
		statsServer: statsServer,
	}
}

// Accessors for presentation-layer collaborators.
func (r *Runner) Ledger() *Ledger           { return r.ledger }
func (r *Runner) Leaderboard() *Leaderboard { return r.leaderboard }
func (r *Runner) Comparator() *Comparator   { return r.comparator }
func (r *Runner) Watchlist() *Watchlist     { return r.watchlist }

// Run blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	go r.refresher.Run(ctx)

	if r.statsServer != nil {
		go r.statsServer.Run(ctx)
	}

	reconnectDelay := r.cfg.Stream.ReconnectDelay
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		wallets := r.watchlist.AllTrackedAddresses()
		if err := r.clients.Stream.Connect(ctx, wallets); err != nil {
			r.logger.Warn("swap stream connect failed, retrying",
				zap.Error(err),
				zap.Duration("delay", reconnectDelay),
			)
			if !sleepCtx(ctx, reconnectDelay) {
				return nil
			}
			continue
		}

		r.consumeStream(ctx)

		if !sleepCtx(ctx, reconnectDelay) {
			return nil
		}
	}
}

// consumeStream processes swap events until the stream errors out or the
// context is cancelled.
func (r *Runner) consumeStream(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = r.clients.Stream.Close()
			return
		case err := <-r.clients.Stream.Errors():
			r.logger.Warn("swap stream error, reconnecting", zap.Error(err))
			return
		case msg := <-r.clients.Stream.Messages():
			r.handleMessage(ctx, msg)
		}
	}
}

func (r *Runner) handleMessage(ctx context.Context, msg json.RawMessage) {
	event := chainstream.ParseSwapEvent(msg)
	if event == nil {
		return
	}

	if !isValidAddress(event.Wallet) {
		r.logger.Debug("dropping swap with invalid wallet address",
			zap.String("wallet", shortID(event.Wallet)),
		)
		return
	}

	switch event.Side {
	case "buy":
		r.ledger.RecordBuy(ctx, event.Wallet, event.Mint, event.Symbol, event.Amount, event.UsdValue, event.PriceUsd)
	case "sell":
		r.ledger.RecordSell(ctx, event.Wallet, event.Mint, event.Amount, event.UsdValue, event.PriceUsd)
	default:
		r.logger.Debug("dropping swap with unknown side",
			zap.String("side", event.Side),
		)
	}
}

// sleepCtx waits for d, returning false if the context was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
