package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Trading style boundaries, in hours of average hold.
const (
	scalperMaxHoldHours   = 1.0
	dayTraderMaxHoldHours = 24.0
)

// Risk appetite boundaries.
const (
	conservativeMaxEntryUsd = 250.0
	conservativeMaxLossPct  = 20.0
	degenMinEntryUsd        = 2000.0
	degenMinLossPct         = 50.0
)

// WalletProfiler classifies a wallet's trading style and risk appetite
// from its own closed trades. Implements the Profiler interface.
type WalletProfiler struct {
	logger *zap.Logger
	ledger *Ledger

	mu       sync.RWMutex
	profiles map[string]*WalletProfile
}

func NewWalletProfiler(logger *zap.Logger, ledger *Ledger) *WalletProfiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletProfiler{
		logger:   logger.Named("profiler"),
		ledger:   ledger,
		profiles: make(map[string]*WalletProfile),
	}
}

// GenerateProfile rebuilds the wallet's behavioral profile from its closed
// trades, replacing any previous profile.
func (p *WalletProfiler) GenerateProfile(ctx context.Context, wallet string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	trades := p.ledger.Trades(wallet)

	var (
		closed    int
		holdSum   float64
		entrySum  float64
		worstLoss float64 // Deepest loss as a positive percent
	)
	for _, t := range trades {
		if t.Status != StatusClosed {
			continue
		}
		closed++
		holdSum += t.HoldHours
		entrySum += t.EntryValue
		if t.ProfitLossPercent < 0 && -t.ProfitLossPercent > worstLoss {
			worstLoss = -t.ProfitLossPercent
		}
	}

	if closed == 0 {
		return fmt.Errorf("wallet %s has no closed trades to profile", shortID(wallet))
	}

	avgHold := holdSum / float64(closed)
	avgEntry := entrySum / float64(closed)

	profile := &WalletProfile{
		Wallet:       wallet,
		TradingStyle: classifyStyle(avgHold),
		RiskAppetite: classifyRisk(avgEntry, worstLoss),
		AvgHoldHours: avgHold,
		AvgEntrySize: avgEntry,
		GeneratedAt:  time.Now(),
	}

	p.mu.Lock()
	p.profiles[wallet] = profile
	p.mu.Unlock()

	p.logger.Debug("rebuilt wallet profile",
		zap.String("wallet", shortID(wallet)),
		zap.String("style", profile.TradingStyle),
		zap.String("risk", profile.RiskAppetite),
	)

	return nil
}

// Profile returns the stored profile for a wallet, if one has been built.
func (p *WalletProfiler) Profile(wallet string) (*WalletProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[wallet]
	return profile, ok
}

// ProfileCount returns the number of stored profiles.
func (p *WalletProfiler) ProfileCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.profiles)
}

func classifyStyle(avgHoldHours float64) string {
	switch {
	case avgHoldHours < scalperMaxHoldHours:
		return "scalper"
	case avgHoldHours < dayTraderMaxHoldHours:
		return "day trader"
	default:
		return "swing trader"
	}
}

func classifyRisk(avgEntryUsd, worstLossPct float64) string {
	if avgEntryUsd >= degenMinEntryUsd || worstLossPct >= degenMinLossPct {
		return "degen"
	}
	if avgEntryUsd < conservativeMaxEntryUsd && worstLossPct < conservativeMaxLossPct {
		return "conservative"
	}
	return "moderate"
}
