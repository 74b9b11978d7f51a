package app

import (
	"time"
)

// computeMetrics builds a full performance snapshot from a wallet's trade
// list. It is a pure function of (trades, now); side effects such as
// profile rebuilds are signaled through the returned needProfile flag and
// dispatched by the caller.
func computeMetrics(wallet string, trades []*Trade, now time.Time, profileMinClosed int) (*WalletMetrics, bool) {
	m := &WalletMetrics{
		Wallet:      wallet,
		TotalTrades: len(trades),
		LastUpdated: now,
	}

	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	var (
		profitPctSum float64 // over winning trades
		lossPctSum   float64 // abs, over losing trades
		investedSum  float64 // entry values of closed trades
		holdSum      float64

		curStreakLen int
		curStreakWin bool
	)

	for _, t := range trades {
		if t.Status != StatusClosed {
			m.OpenTrades++
			continue
		}

		m.ClosedTrades++
		m.TotalPnl += t.ProfitLoss
		investedSum += t.EntryValue
		holdSum += t.HoldHours

		if t.IsWin {
			m.Wins++
			profitPctSum += t.ProfitLossPercent
		} else {
			m.Losses++
			if t.ProfitLossPercent < 0 {
				lossPctSum += -t.ProfitLossPercent
			} else {
				lossPctSum += t.ProfitLossPercent
			}
		}

		if !t.ExitTime.Before(sevenDaysAgo) {
			m.Last7DaysPnl += t.ProfitLoss
		}
		if !t.ExitTime.Before(thirtyDaysAgo) {
			m.Last30DaysPnl += t.ProfitLoss
		}

		// Streaks run over closed trades in list order.
		if curStreakLen == 0 || t.IsWin != curStreakWin {
			curStreakLen = 1
			curStreakWin = t.IsWin
		} else {
			curStreakLen++
		}
		if curStreakWin && curStreakLen > m.MaxWinStreak {
			m.MaxWinStreak = curStreakLen
		}
		if !curStreakWin && curStreakLen > m.MaxLossStreak {
			m.MaxLossStreak = curStreakLen
		}

		// Strict comparisons so the earliest trade wins ties.
		if m.BestTrade == nil || t.ProfitLoss > m.BestTrade.ProfitLoss {
			m.BestTrade = t
		}
		if m.WorstTrade == nil || t.ProfitLoss < m.WorstTrade.ProfitLoss {
			m.WorstTrade = t
		}
	}

	if m.ClosedTrades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.ClosedTrades) * 100
		m.AvgHoldHours = holdSum / float64(m.ClosedTrades)
	}
	if m.Wins > 0 {
		m.AvgProfitPercent = profitPctSum / float64(m.Wins)
	}
	if m.Losses > 0 {
		m.AvgLossPercent = lossPctSum / float64(m.Losses)
	}
	if investedSum > 0 {
		m.TotalRoi = m.TotalPnl / investedSum * 100
	}
	// Ratio of average percentages, not gross profit over gross loss. The
	// smart-money thresholds are tuned against this definition.
	if m.AvgLossPercent > 0 {
		m.ProfitFactor = m.AvgProfitPercent / m.AvgLossPercent
	}

	if curStreakLen > 0 {
		if curStreakWin {
			m.CurrentStreak = curStreakLen
		} else {
			m.CurrentStreak = -curStreakLen
		}
	}

	return m, m.ClosedTrades >= profileMinClosed
}
