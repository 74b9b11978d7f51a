package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `json:"is_prod"`

	// Discord
	Discord DiscordConfig `json:"discord"`

	// Telegram
	Telegram TelegramConfig `json:"telegram"`

	// Price oracle
	PriceAPI PriceAPIConfig `json:"price_api"`

	// On-chain swap stream
	Stream StreamConfig `json:"stream"`

	// Ledger / metrics / alert thresholds
	Tracker TrackerConfig `json:"tracker"`

	// Health server
	HealthServer HealthServerConfig `json:"health_server"`
}

// DiscordConfig holds Discord-related configuration.
type DiscordConfig struct {
	BotToken      string `json:"-"` // Excluded - env var only
	ProdChannelID string `json:"prod_channel_id"`
	BetaChannelID string `json:"beta_channel_id"`
}

// TelegramConfig holds Telegram-related configuration.
type TelegramConfig struct {
	BotToken   string `json:"-"` // Excluded - env var only
	ProdChatID int64  `json:"prod_chat_id"`
	BetaChatID int64  `json:"beta_chat_id"`
}

// PriceAPIConfig holds token price API configuration.
type PriceAPIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// StreamConfig holds swap stream configuration.
type StreamConfig struct {
	WSURL          string        `json:"ws_url"`
	ReconnectDelay time.Duration `json:"reconnect_delay"`
	PingInterval   time.Duration `json:"ping_interval"`
}

// TrackerConfig holds ledger, leaderboard and alert configuration.
type TrackerConfig struct {
	// Position refresher
	RefreshInterval time.Duration `json:"refresh_interval"` // Sweep period for unrealized P&L
	LookupTimeout   time.Duration `json:"lookup_timeout"`   // Per-token price lookup timeout

	// Leaderboard qualification
	LeaderboardMinClosed int `json:"leaderboard_min_closed"` // Minimum closed trades to be ranked (e.g., 5)

	// Smart money qualification
	SmartMoneyMinClosed    int     `json:"smart_money_min_closed"`     // e.g., 10
	SmartMoneyMinWinRate   float64 `json:"smart_money_min_win_rate"`   // Percent, e.g., 65
	SmartMoneyMinRoi       float64 `json:"smart_money_min_roi"`        // Percent, e.g., 100
	SmartMoneyMinProfitFac float64 `json:"smart_money_min_profit_fac"` // e.g., 2

	// Alert gating (more lenient than smart money)
	AlertMinClosed  int     `json:"alert_min_closed"`   // e.g., 5
	AlertMinWinRate float64 `json:"alert_min_win_rate"` // Percent, e.g., 50

	// Behavioral profiling
	ProfileMinClosed int           `json:"profile_min_closed"` // Closed trades before a profile is built (e.g., 3)
	ProfileTimeout   time.Duration `json:"profile_timeout"`    // Deadline for a fire-and-forget profile rebuild
}

// HealthServerConfig holds health/stats server configuration.
type HealthServerConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Load reads configuration from environment variables, applying defaults
// for everything that is not set. A .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		IsProd: getEnvBool("IS_PROD", false),

		Discord: DiscordConfig{
			BotToken:      os.Getenv("DISCORD_BOT_TOKEN"),
			ProdChannelID: os.Getenv("DISCORD_PROD_CHANNEL_ID"),
			BetaChannelID: os.Getenv("DISCORD_BETA_CHANNEL_ID"),
		},

		Telegram: TelegramConfig{
			BotToken:   os.Getenv("TELEGRAM_BOT_KEY"),
			ProdChatID: getEnvInt64("TELEGRAM_PROD_CHAT_ID", 0),
			BetaChatID: getEnvInt64("TELEGRAM_BETA_CHAT_ID", 0),
		},

		PriceAPI: PriceAPIConfig{
			BaseURL: getEnvString("PRICE_API_URL", "https://api.dexscreener.com/latest/dex"),
			Timeout: getEnvDuration("PRICE_API_TIMEOUT", 30*time.Second),
		},

		Stream: StreamConfig{
			WSURL:          getEnvString("SWAP_STREAM_WS_URL", "wss://stream.solanatracker.io/swaps"),
			ReconnectDelay: getEnvDuration("SWAP_STREAM_RECONNECT_DELAY", 5*time.Second),
			PingInterval:   getEnvDuration("SWAP_STREAM_PING_INTERVAL", 10*time.Second),
		},

		Tracker: TrackerConfig{
			RefreshInterval: getEnvDuration("POSITION_REFRESH_INTERVAL", 5*time.Minute),
			LookupTimeout:   getEnvDuration("PRICE_LOOKUP_TIMEOUT", 10*time.Second),

			LeaderboardMinClosed: getEnvInt("LEADERBOARD_MIN_CLOSED", 5),

			SmartMoneyMinClosed:    getEnvInt("SMART_MONEY_MIN_CLOSED", 10),
			SmartMoneyMinWinRate:   getEnvFloat("SMART_MONEY_MIN_WIN_RATE", 65),
			SmartMoneyMinRoi:       getEnvFloat("SMART_MONEY_MIN_ROI", 100),
			SmartMoneyMinProfitFac: getEnvFloat("SMART_MONEY_MIN_PROFIT_FACTOR", 2),

			AlertMinClosed:  getEnvInt("ALERT_MIN_CLOSED", 5),
			AlertMinWinRate: getEnvFloat("ALERT_MIN_WIN_RATE", 50),

			ProfileMinClosed: getEnvInt("PROFILE_MIN_CLOSED", 3),
			ProfileTimeout:   getEnvDuration("PROFILE_TIMEOUT", 15*time.Second),
		},

		HealthServer: HealthServerConfig{
			Enabled: getEnvBool("HEALTH_SERVER_ENABLED", true),
			Addr:    getEnvString("HEALTH_SERVER_ADDR", ":8080"),
		},
	}
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
