package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSweep_FailureIsolatedPerToken(t *testing.T) {
	oracle := NewMockOracle()
	oracle.SetError("mintX", errors.New("api down"))
	oracle.SetPrice("mintY", 0.02)

	ledger := newTestLedger(nil, nil, nil)
	ctx := context.Background()
	ledger.RecordBuy(ctx, "w1", "mintX", "", 100, 1.0, 0.01)
	ledger.RecordBuy(ctx, "w1", "mintY", "", 100, 1.0, 0.01)

	r := NewRefresher(zap.NewNop(), ledger, oracle, time.Minute, time.Second)
	r.Sweep(ctx)

	var failedTrade, okTrade Trade
	for _, tr := range ledger.Trades("w1") {
		switch tr.Mint {
		case "mintX":
			failedTrade = tr
		case "mintY":
			okTrade = tr
		}
	}

	if failedTrade.Unrealized != nil {
		t.Error("expected no annotation for the failed lookup")
	}
	if okTrade.Unrealized == nil {
		t.Fatal("expected the healthy token to be annotated despite the failure")
	}
	if okTrade.Unrealized.CurrentPrice != 0.02 {
		t.Errorf("expected annotated price 0.02, got %f", okTrade.Unrealized.CurrentPrice)
	}
}

func TestSweep_NeverClosesTrades(t *testing.T) {
	oracle := NewMockOracle()
	oracle.SetPrice("mint1", 0.05)

	ledger := newTestLedger(nil, nil, nil)
	ctx := context.Background()
	ledger.RecordBuy(ctx, "w1", "mint1", "", 100, 1.0, 0.01)

	r := NewRefresher(zap.NewNop(), ledger, oracle, time.Minute, time.Second)
	r.Sweep(ctx)
	r.Sweep(ctx)

	tr := ledger.Trades("w1")[0]
	if tr.Status != StatusOpen {
		t.Errorf("expected trade to stay open, got %s", tr.Status)
	}
	m, _ := ledger.Metrics("w1")
	if m.ClosedTrades != 0 {
		t.Errorf("expected 0 closed trades, got %d", m.ClosedTrades)
	}
}

func TestSweep_SkipsUnknownPrices(t *testing.T) {
	// Oracle returns nil data for an unknown mint.
	oracle := NewMockOracle()

	ledger := newTestLedger(nil, nil, nil)
	ctx := context.Background()
	ledger.RecordBuy(ctx, "w1", "mint1", "", 100, 1.0, 0.01)

	r := NewRefresher(zap.NewNop(), ledger, oracle, time.Minute, time.Second)
	r.Sweep(ctx)

	if ledger.Trades("w1")[0].Unrealized != nil {
		t.Error("expected no annotation without price data")
	}
}

func TestRun_SweepsImmediatelyAndStops(t *testing.T) {
	oracle := NewMockOracle()
	oracle.SetPrice("mint1", 0.02)

	ledger := newTestLedger(nil, nil, nil)
	ledger.RecordBuy(context.Background(), "w1", "mint1", "", 100, 1.0, 0.01)

	r := NewRefresher(zap.NewNop(), ledger, oracle, time.Hour, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// The initial sweep runs before the first tick.
	deadline := time.After(2 * time.Second)
	for ledger.Trades("w1")[0].Unrealized == nil {
		select {
		case <-deadline:
			t.Fatal("expected an immediate sweep on start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return on context cancellation")
	}
}
