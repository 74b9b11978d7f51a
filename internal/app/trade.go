package app

import (
	"context"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/priceapi"
)

// TradeStatus is the lifecycle state of a trade. A trade transitions
// open→closed exactly once; there is no reopening.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// Unrealized is the transient annotation the position refresher attaches to
// an open trade. It is never persisted and is replaced as a whole record.
type Unrealized struct {
	Pnl          float64
	PnlPercent   float64
	CurrentPrice float64
	UpdatedAt    time.Time
}

// Trade is a single buy, eventually paired with a sell for the same wallet
// and token. Owned exclusively by the Ledger.
type Trade struct {
	ID     int64
	Wallet string
	Mint   string
	Symbol string

	EntryPrice  float64
	EntryAmount float64
	EntryValue  float64 // Quote-currency (USD) value at entry
	EntryTime   time.Time

	ExitPrice  float64
	ExitAmount float64
	ExitValue  float64
	ExitTime   time.Time

	// Derived when the trade closes.
	ProfitLoss        float64
	ProfitLossPercent float64
	IsWin             bool
	HoldHours         float64

	Status TradeStatus

	// Written solely by the position refresher while the trade is open.
	Unrealized *Unrealized
}

// WalletMetrics is a full performance snapshot for one wallet. It is
// recomputed wholesale on every ledger mutation and swapped by pointer;
// readers never observe a partially written snapshot.
type WalletMetrics struct {
	Wallet string

	TotalTrades  int
	OpenTrades   int
	ClosedTrades int
	Wins         int
	Losses       int

	WinRate          float64 // Percent
	AvgProfitPercent float64
	AvgLossPercent   float64

	TotalPnl float64
	TotalRoi float64 // Percent over closed entry values

	BestTrade  *Trade
	WorstTrade *Trade

	Last7DaysPnl  float64
	Last30DaysPnl float64

	AvgHoldHours float64

	CurrentStreak int // Signed: positive for a win-ending run, negative for loss-ending
	MaxWinStreak  int
	MaxLossStreak int

	ProfitFactor float64 // avgProfitPercent / avgLossPercent, 0 when no losses

	// Assigned only on leaderboard output copies; not a durable attribute.
	Rank int

	LastUpdated time.Time
}

// WalletProfile is a behavioral profile built from a wallet's own trades.
type WalletProfile struct {
	Wallet       string
	TradingStyle string // scalper | day trader | swing trader
	RiskAppetite string // conservative | moderate | degen
	AvgHoldHours float64
	AvgEntrySize float64
	GeneratedAt  time.Time
}

// TrackedWallet is one entry in a chat's watchlist.
type TrackedWallet struct {
	Address string    `json:"address"`
	Label   string    `json:"label"`
	AddedAt time.Time `json:"added_at"`
}

// PriceOracle resolves token market data. A nil result with a nil error
// means the oracle knows nothing about the mint.
type PriceOracle interface {
	GetTokenData(ctx context.Context, mint string) (*priceapi.TokenData, error)
}

// Storage resolves watchlist membership and wallet display labels for the
// ledger's consumers. Failures are caught and logged at call sites; they
// never propagate to ingestion or read callers.
type Storage interface {
	AllTrackedChatIDs(ctx context.Context) ([]string, error)
	TrackedWallets(ctx context.Context, chatID string) ([]TrackedWallet, error)
	IsTracked(ctx context.Context, chatID, address string) (bool, error)
	WalletLabel(ctx context.Context, address string) (string, error)
}

// Profiler builds and serves behavioral profiles for wallets.
type Profiler interface {
	GenerateProfile(ctx context.Context, wallet string) error
	Profile(wallet string) (*WalletProfile, bool)
}
