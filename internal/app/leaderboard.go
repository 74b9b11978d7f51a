package app

import (
	"context"
	"sort"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

const suggestionLimit = 5

// Leaderboard ranks and qualifies wallets over the ledger's precomputed
// snapshots. It never triggers a recompute.
type Leaderboard struct {
	logger  *zap.Logger
	ledger  *Ledger
	storage Storage

	minClosed int

	smartMinClosed    int
	smartMinWinRate   float64
	smartMinRoi       float64
	smartMinProfitFac float64
}

func NewLeaderboard(logger *zap.Logger, ledger *Ledger, storage Storage, cfg config.TrackerConfig) *Leaderboard {
	if logger == nil {
		logger = zap.NewNop()
	}

	minClosed := cfg.LeaderboardMinClosed
	if minClosed <= 0 {
		minClosed = 5
	}
	smartMinClosed := cfg.SmartMoneyMinClosed
	if smartMinClosed <= 0 {
		smartMinClosed = 10
	}
	smartMinWinRate := cfg.SmartMoneyMinWinRate
	if smartMinWinRate <= 0 {
		smartMinWinRate = 65
	}
	smartMinRoi := cfg.SmartMoneyMinRoi
	if smartMinRoi <= 0 {
		smartMinRoi = 100
	}
	smartMinProfitFac := cfg.SmartMoneyMinProfitFac
	if smartMinProfitFac <= 0 {
		smartMinProfitFac = 2
	}

	return &Leaderboard{
		logger:            logger.Named("leaderboard"),
		ledger:            ledger,
		storage:           storage,
		minClosed:         minClosed,
		smartMinClosed:    smartMinClosed,
		smartMinWinRate:   smartMinWinRate,
		smartMinRoi:       smartMinRoi,
		smartMinProfitFac: smartMinProfitFac,
	}
}

// Top returns the qualified leaderboard: wallets with enough closed trades,
// sorted by total ROI descending, with dense ranks 1..N assigned over the
// filtered set only. Ranks live on the returned copies, never on the
// ledger's snapshots.
func (lb *Leaderboard) Top(limit int) []*WalletMetrics {
	qualified := lb.qualified()

	if limit > 0 && limit < len(qualified) {
		qualified = qualified[:limit]
	}
	return qualified
}

func (lb *Leaderboard) qualified() []*WalletMetrics {
	all := lb.ledger.AllMetrics()

	qualified := make([]*WalletMetrics, 0, len(all))
	for _, m := range all {
		if m.ClosedTrades >= lb.minClosed {
			copied := *m
			qualified = append(qualified, &copied)
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].TotalRoi > qualified[j].TotalRoi
	})

	for i, m := range qualified {
		m.Rank = i + 1
	}
	return qualified
}

// IsSmartMoney evaluates the smart-money qualification against the wallet's
// last computed snapshot.
func (lb *Leaderboard) IsSmartMoney(wallet string) bool {
	m, ok := lb.ledger.Metrics(wallet)
	if !ok {
		return false
	}
	return lb.isSmartMoney(m)
}

func (lb *Leaderboard) isSmartMoney(m *WalletMetrics) bool {
	return m.ClosedTrades >= lb.smartMinClosed &&
		m.WinRate >= lb.smartMinWinRate &&
		m.TotalRoi >= lb.smartMinRoi &&
		m.ProfitFactor >= lb.smartMinProfitFac
}

// SuggestWallets returns up to five smart-money wallets that no chat is
// tracking yet, best ROI first. Storage failures degrade to "not tracked"
// so a flaky watchlist cannot hide a good wallet.
func (lb *Leaderboard) SuggestWallets(ctx context.Context) []*WalletMetrics {
	var chatIDs []string
	if lb.storage != nil {
		ids, err := lb.storage.AllTrackedChatIDs(ctx)
		if err != nil {
			lb.logger.Warn("failed to list tracked chats", zap.Error(err))
		} else {
			chatIDs = ids
		}
	}

	var suggestions []*WalletMetrics
	for _, m := range lb.ledger.AllMetrics() {
		if !lb.isSmartMoney(m) {
			continue
		}
		if lb.trackedAnywhere(ctx, chatIDs, m.Wallet) {
			continue
		}
		copied := *m
		suggestions = append(suggestions, &copied)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].TotalRoi > suggestions[j].TotalRoi
	})

	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions
}

func (lb *Leaderboard) trackedAnywhere(ctx context.Context, chatIDs []string, wallet string) bool {
	for _, chatID := range chatIDs {
		tracked, err := lb.storage.IsTracked(ctx, chatID, wallet)
		if err != nil {
			lb.logger.Warn("tracked-wallet lookup failed",
				zap.String("chatID", chatID),
				zap.String("wallet", shortID(wallet)),
				zap.Error(err),
			)
			continue
		}
		if tracked {
			return true
		}
	}
	return false
}
