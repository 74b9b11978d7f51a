package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.IsProd {
		t.Error("expected IsProd to default to false")
	}
	if cfg.Tracker.RefreshInterval != 5*time.Minute {
		t.Errorf("expected 5m refresh interval, got %v", cfg.Tracker.RefreshInterval)
	}
	if cfg.Tracker.LeaderboardMinClosed != 5 {
		t.Errorf("expected leaderboard min closed 5, got %d", cfg.Tracker.LeaderboardMinClosed)
	}
	if cfg.Tracker.SmartMoneyMinClosed != 10 {
		t.Errorf("expected smart money min closed 10, got %d", cfg.Tracker.SmartMoneyMinClosed)
	}
	if cfg.Tracker.SmartMoneyMinWinRate != 65 {
		t.Errorf("expected smart money min win rate 65, got %f", cfg.Tracker.SmartMoneyMinWinRate)
	}
	if cfg.Tracker.AlertMinWinRate != 50 {
		t.Errorf("expected alert min win rate 50, got %f", cfg.Tracker.AlertMinWinRate)
	}
	if cfg.PriceAPI.BaseURL == "" {
		t.Error("expected price API base URL default")
	}
	if !cfg.HealthServer.Enabled {
		t.Error("expected health server enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IS_PROD", "true")
	t.Setenv("POSITION_REFRESH_INTERVAL", "90s")
	t.Setenv("LEADERBOARD_MIN_CLOSED", "7")
	t.Setenv("SMART_MONEY_MIN_WIN_RATE", "72.5")
	t.Setenv("TELEGRAM_PROD_CHAT_ID", "-1001234567890")

	cfg := Load()

	if !cfg.IsProd {
		t.Error("expected IsProd true")
	}
	if cfg.Tracker.RefreshInterval != 90*time.Second {
		t.Errorf("expected 90s refresh interval, got %v", cfg.Tracker.RefreshInterval)
	}
	if cfg.Tracker.LeaderboardMinClosed != 7 {
		t.Errorf("expected leaderboard min closed 7, got %d", cfg.Tracker.LeaderboardMinClosed)
	}
	if cfg.Tracker.SmartMoneyMinWinRate != 72.5 {
		t.Errorf("expected win rate 72.5, got %f", cfg.Tracker.SmartMoneyMinWinRate)
	}
	if cfg.Telegram.ProdChatID != -1001234567890 {
		t.Errorf("expected chat ID parsed, got %d", cfg.Telegram.ProdChatID)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("POSITION_REFRESH_INTERVAL", "not-a-duration")
	t.Setenv("LEADERBOARD_MIN_CLOSED", "five")
	t.Setenv("IS_PROD", "definitely")

	cfg := Load()

	if cfg.Tracker.RefreshInterval != 5*time.Minute {
		t.Errorf("expected fallback 5m, got %v", cfg.Tracker.RefreshInterval)
	}
	if cfg.Tracker.LeaderboardMinClosed != 5 {
		t.Errorf("expected fallback 5, got %d", cfg.Tracker.LeaderboardMinClosed)
	}
	if cfg.IsProd {
		t.Error("expected fallback false for unparseable bool")
	}
}
