package app

import (
	"context"
	"errors"
	"testing"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

func TestMaybeAlert_BelowThresholdsSilent(t *testing.T) {
	notif := NewMockNotifier()
	ae := NewAlertEmitter(zap.NewNop(), nil, notif, config.TrackerConfig{})
	ctx := context.Background()
	tr := &Trade{Wallet: "w1", Mint: "mint1"}

	ae.MaybeAlert(ctx, actionBuy, tr, &WalletMetrics{ClosedTrades: 4, WinRate: 90})
	ae.MaybeAlert(ctx, actionBuy, tr, &WalletMetrics{ClosedTrades: 20, WinRate: 49.9})

	if len(notif.Alerts()) != 0 {
		t.Errorf("expected no alerts, got %d", len(notif.Alerts()))
	}
	if ae.SentCount() != 0 {
		t.Errorf("expected sent count 0, got %d", ae.SentCount())
	}
}

func TestMaybeAlert_BuyUsesEntrySellUsesExit(t *testing.T) {
	notif := NewMockNotifier()
	ae := NewAlertEmitter(zap.NewNop(), nil, notif, config.TrackerConfig{})
	ctx := context.Background()
	m := &WalletMetrics{ClosedTrades: 5, WinRate: 60}
	tr := &Trade{
		Wallet:      "w1",
		Mint:        "mint1",
		EntryAmount: 100,
		EntryValue:  1.0,
		ExitAmount:  100,
		ExitValue:   1.5,
	}

	ae.MaybeAlert(ctx, actionBuy, tr, m)
	ae.MaybeAlert(ctx, actionSell, tr, m)

	got := notif.Alerts()
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].Value != 1.0 {
		t.Errorf("expected buy alert to carry entry value, got %f", got[0].Value)
	}
	if got[1].Value != 1.5 {
		t.Errorf("expected sell alert to carry exit value, got %f", got[1].Value)
	}
}

func TestWalletLabel_FallsBackToShortAddress(t *testing.T) {
	longAddr := "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

	// Storage failure falls back.
	storage := NewMockStorage()
	storage.SetError(errors.New("storage down"))
	ae := NewAlertEmitter(zap.NewNop(), storage, NewMockNotifier(), config.TrackerConfig{})
	if got := ae.walletLabel(context.Background(), longAddr); got != shortID(longAddr) {
		t.Errorf("expected short address on storage failure, got %q", got)
	}

	// Empty label falls back.
	storage = NewMockStorage()
	ae = NewAlertEmitter(zap.NewNop(), storage, NewMockNotifier(), config.TrackerConfig{})
	if got := ae.walletLabel(context.Background(), longAddr); got != shortID(longAddr) {
		t.Errorf("expected short address on empty label, got %q", got)
	}

	// Stored label wins.
	storage.SetLabel(longAddr, "insider")
	if got := ae.walletLabel(context.Background(), longAddr); got != "insider" {
		t.Errorf("expected stored label, got %q", got)
	}
}

func TestMaybeAlert_NilNotifierSafe(t *testing.T) {
	ae := NewAlertEmitter(zap.NewNop(), nil, nil, config.TrackerConfig{})

	// Must not panic.
	ae.MaybeAlert(context.Background(), actionBuy,
		&Trade{Wallet: "w1"}, &WalletMetrics{ClosedTrades: 10, WinRate: 90})

	if ae.SentCount() != 0 {
		t.Errorf("expected sent count 0, got %d", ae.SentCount())
	}
}
