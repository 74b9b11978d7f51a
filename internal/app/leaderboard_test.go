package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

func newTestLeaderboard(storage Storage) (*Leaderboard, *Ledger) {
	ledger := newTestLedger(nil, nil, nil)
	lb := NewLeaderboard(zap.NewNop(), ledger, storage, config.TrackerConfig{})
	return lb, ledger
}

// seedWallet injects a precomputed snapshot for a wallet.
func seedWallet(ledger *Ledger, m *WalletMetrics) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	ledger.metrics[m.Wallet] = m
}

func TestLeaderboard_FiltersAndRanks(t *testing.T) {
	lb, ledger := newTestLeaderboard(nil)

	seedWallet(ledger, &WalletMetrics{Wallet: "low", ClosedTrades: 8, TotalRoi: 50})
	seedWallet(ledger, &WalletMetrics{Wallet: "high", ClosedTrades: 12, TotalRoi: 300})
	seedWallet(ledger, &WalletMetrics{Wallet: "mid", ClosedTrades: 5, TotalRoi: 120})
	seedWallet(ledger, &WalletMetrics{Wallet: "rookie", ClosedTrades: 4, TotalRoi: 900})

	top := lb.Top(0)
	if len(top) != 3 {
		t.Fatalf("expected 3 qualified wallets, got %d", len(top))
	}
	for _, m := range top {
		if m.Wallet == "rookie" {
			t.Error("expected wallet below the closed-trade minimum to be excluded")
		}
	}

	wantOrder := []string{"high", "mid", "low"}
	for i, m := range top {
		if m.Wallet != wantOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantOrder[i], m.Wallet)
		}
		if m.Rank != i+1 {
			t.Errorf("wallet %s: expected rank %d, got %d", m.Wallet, i+1, m.Rank)
		}
	}
}

func TestLeaderboard_RankNotPersisted(t *testing.T) {
	lb, ledger := newTestLeaderboard(nil)
	seedWallet(ledger, &WalletMetrics{Wallet: "w1", ClosedTrades: 10, TotalRoi: 100})

	_ = lb.Top(0)

	m, _ := ledger.Metrics("w1")
	if m.Rank != 0 {
		t.Errorf("expected rank to stay off the ledger snapshot, got %d", m.Rank)
	}
}

func TestLeaderboard_Limit(t *testing.T) {
	lb, ledger := newTestLeaderboard(nil)
	for i := 0; i < 10; i++ {
		seedWallet(ledger, &WalletMetrics{
			Wallet:       fmt.Sprintf("w%d", i),
			ClosedTrades: 10,
			TotalRoi:     float64(i * 10),
		})
	}

	top := lb.Top(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Wallet != "w9" || top[0].Rank != 1 {
		t.Errorf("expected w9 at rank 1, got %s at %d", top[0].Wallet, top[0].Rank)
	}
}

func TestIsSmartMoney(t *testing.T) {
	lb, ledger := newTestLeaderboard(nil)

	qualifying := &WalletMetrics{
		Wallet:       "smart",
		ClosedTrades: 10,
		WinRate:      65,
		TotalRoi:     100,
		ProfitFactor: 2,
	}
	seedWallet(ledger, qualifying)
	if !lb.IsSmartMoney("smart") {
		t.Error("expected wallet at every threshold to qualify")
	}

	cases := []struct {
		name   string
		mutate func(*WalletMetrics)
	}{
		{"closed trades", func(m *WalletMetrics) { m.ClosedTrades = 9 }},
		{"win rate", func(m *WalletMetrics) { m.WinRate = 64.9 }},
		{"roi", func(m *WalletMetrics) { m.TotalRoi = 99.9 }},
		{"profit factor", func(m *WalletMetrics) { m.ProfitFactor = 1.99 }},
	}
	for _, tc := range cases {
		m := *qualifying
		m.Wallet = "almost-" + tc.name
		tc.mutate(&m)
		seedWallet(ledger, &m)
		if lb.IsSmartMoney(m.Wallet) {
			t.Errorf("expected wallet failing on %s not to qualify", tc.name)
		}
	}

	if lb.IsSmartMoney("never-seen") {
		t.Error("expected unknown wallet not to qualify")
	}
}

func TestSuggestWallets_ExcludesTracked(t *testing.T) {
	storage := NewMockStorage()
	storage.Track("chat1", "tracked")
	lb, ledger := newTestLeaderboard(storage)

	smart := WalletMetrics{ClosedTrades: 10, WinRate: 70, TotalRoi: 200, ProfitFactor: 3}

	tracked := smart
	tracked.Wallet = "tracked"
	seedWallet(ledger, &tracked)

	fresh := smart
	fresh.Wallet = "fresh"
	seedWallet(ledger, &fresh)

	got := lb.SuggestWallets(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Wallet != "fresh" {
		t.Errorf("expected fresh to be suggested, got %s", got[0].Wallet)
	}
}

func TestSuggestWallets_LimitAndOrder(t *testing.T) {
	lb, ledger := newTestLeaderboard(NewMockStorage())
	for i := 0; i < 7; i++ {
		seedWallet(ledger, &WalletMetrics{
			Wallet:       fmt.Sprintf("w%d", i),
			ClosedTrades: 10,
			WinRate:      70,
			TotalRoi:     100 + float64(i*10),
			ProfitFactor: 3,
		})
	}

	got := lb.SuggestWallets(context.Background())
	if len(got) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(got))
	}
	if got[0].Wallet != "w6" {
		t.Errorf("expected best ROI first, got %s", got[0].Wallet)
	}
}

func TestSuggestWallets_StorageFailureStillSuggests(t *testing.T) {
	storage := NewMockStorage()
	storage.Track("chat1", "smart")
	storage.SetError(errors.New("storage down"))
	lb, ledger := newTestLeaderboard(storage)

	seedWallet(ledger, &WalletMetrics{
		Wallet: "smart", ClosedTrades: 10, WinRate: 70, TotalRoi: 200, ProfitFactor: 3,
	})

	// With storage failing, tracking status is unknowable; suggest anyway.
	got := lb.SuggestWallets(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion despite storage failure, got %d", len(got))
	}
}
