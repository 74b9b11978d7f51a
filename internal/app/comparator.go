package app

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Thresholds for leader-comparison feedback, in the units of each field.
const (
	leaderWinRateGap      = 5.0  // Percentage points
	leaderRoiGap          = 20.0 // Percentage points
	leaderProfitFactorGap = 0.5
	strengthMinWinStreak  = 3
)

// WalletComparison is the result of a head-to-head wallet comparison.
// Diffs are A minus B.
type WalletComparison struct {
	WalletA string
	WalletB string

	WinRateDiff      float64
	TotalRoiDiff     float64
	TotalPnlDiff     float64
	ProfitFactorDiff float64

	ScoreA float64
	ScoreB float64
	Winner string // Winning wallet address, or empty when the scores are too close

	StyleMatch      bool
	RiskMatch       bool
	SimilarityScore float64 // 0-100
}

// LeaderComparison diffs a wallet against the current leaderboard #1.
// Gaps are leader minus wallet.
type LeaderComparison struct {
	Wallet string
	Leader string

	WinRateGap      float64
	RoiGap          float64
	PnlGap          float64
	ProfitFactorGap float64

	Suggestions []string
	Strengths   []string
}

// Comparator is a thin consumer of the ledger, leaderboard and profiler.
type Comparator struct {
	logger      *zap.Logger
	ledger      *Ledger
	leaderboard *Leaderboard
	profiler    Profiler
}

func NewComparator(logger *zap.Logger, ledger *Ledger, leaderboard *Leaderboard, profiler Profiler) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{
		logger:      logger.Named("comparator"),
		ledger:      ledger,
		leaderboard: leaderboard,
		profiler:    profiler,
	}
}

// CompareWallets diffs two wallets' snapshots. Returns nil only when
// neither wallet has a snapshot at all; a wallet missing its snapshot is
// compared as all zeros.
func (c *Comparator) CompareWallets(a, b string) *WalletComparison {
	ma, okA := c.ledger.Metrics(a)
	mb, okB := c.ledger.Metrics(b)
	if !okA && !okB {
		return nil
	}
	if !okA {
		ma = &WalletMetrics{Wallet: a}
	}
	if !okB {
		mb = &WalletMetrics{Wallet: b}
	}

	cmp := &WalletComparison{
		WalletA:          a,
		WalletB:          b,
		WinRateDiff:      ma.WinRate - mb.WinRate,
		TotalRoiDiff:     ma.TotalRoi - mb.TotalRoi,
		TotalPnlDiff:     ma.TotalPnl - mb.TotalPnl,
		ProfitFactorDiff: ma.ProfitFactor - mb.ProfitFactor,
		ScoreA:           compositeScore(ma),
		ScoreB:           compositeScore(mb),
	}

	// A winner is declared only outside the 10% dead zone.
	switch {
	case cmp.ScoreA > cmp.ScoreB*1.1:
		cmp.Winner = a
	case cmp.ScoreB > cmp.ScoreA*1.1:
		cmp.Winner = b
	}

	cmp.StyleMatch, cmp.RiskMatch = c.profileMatch(a, b)
	cmp.SimilarityScore = similarityScore(cmp.StyleMatch, cmp.RiskMatch, ma.AvgHoldHours, mb.AvgHoldHours)

	return cmp
}

// CompareWithLeader diffs the wallet against leaderboard rank #1 and turns
// the gaps into improvement suggestions and strength statements. Returns
// nil when the wallet was never recorded or the leaderboard is empty.
func (c *Comparator) CompareWithLeader(wallet string) *LeaderComparison {
	m, ok := c.ledger.Metrics(wallet)
	if !ok {
		return nil
	}

	top := c.leaderboard.Top(1)
	if len(top) == 0 {
		return nil
	}
	leader := top[0]

	cmp := &LeaderComparison{
		Wallet:          wallet,
		Leader:          leader.Wallet,
		WinRateGap:      leader.WinRate - m.WinRate,
		RoiGap:          leader.TotalRoi - m.TotalRoi,
		PnlGap:          leader.TotalPnl - m.TotalPnl,
		ProfitFactorGap: leader.ProfitFactor - m.ProfitFactor,
	}

	if cmp.WinRateGap > leaderWinRateGap {
		cmp.Suggestions = append(cmp.Suggestions,
			fmt.Sprintf("win rate trails the leader by %.1f points; tighten entry criteria", cmp.WinRateGap))
	}
	if cmp.RoiGap > leaderRoiGap {
		cmp.Suggestions = append(cmp.Suggestions,
			fmt.Sprintf("total ROI trails the leader by %.1f points; let winners run longer", cmp.RoiGap))
	}
	if cmp.ProfitFactorGap > leaderProfitFactorGap {
		cmp.Suggestions = append(cmp.Suggestions,
			fmt.Sprintf("profit factor trails the leader by %.2f; cut losing positions sooner", cmp.ProfitFactorGap))
	}

	if m.CurrentStreak >= strengthMinWinStreak {
		cmp.Strengths = append(cmp.Strengths,
			fmt.Sprintf("on a %d-trade win streak", m.CurrentStreak))
	}
	if m.Last7DaysPnl > 0 {
		cmp.Strengths = append(cmp.Strengths,
			fmt.Sprintf("positive 7-day P&L (%+.2f)", m.Last7DaysPnl))
	}

	return cmp
}

func (c *Comparator) profileMatch(a, b string) (styleMatch, riskMatch bool) {
	if c.profiler == nil {
		return false, false
	}
	pa, okA := c.profiler.Profile(a)
	pb, okB := c.profiler.Profile(b)
	if !okA || !okB {
		return false, false
	}
	return pa.TradingStyle == pb.TradingStyle, pa.RiskAppetite == pb.RiskAppetite
}

// compositeScore collapses a snapshot into one comparable number.
func compositeScore(m *WalletMetrics) float64 {
	return m.WinRate + m.TotalRoi/10 + m.ProfitFactor*10
}

// similarityScore is 40 for matching style, 40 for matching risk appetite,
// and up to 20 scaled by how close the average hold durations are.
func similarityScore(styleMatch, riskMatch bool, holdA, holdB float64) float64 {
	score := 0.0
	if styleMatch {
		score += 40
	}
	if riskMatch {
		score += 40
	}

	maxHold := math.Max(holdA, holdB)
	if maxHold <= 0 {
		// Neither wallet holds positions long enough to differentiate.
		return score + 20
	}
	closeness := 1 - math.Min(1, math.Abs(holdA-holdB)/maxHold)
	return score + 20*closeness
}
