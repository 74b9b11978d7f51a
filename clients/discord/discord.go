package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/notifier"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient sends alerts to Discord.
// Implements notifier.Notifier interface.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
	isProd    bool
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	channelID := cfg.Discord.BetaChannelID
	if cfg.IsProd {
		channelID = cfg.Discord.ProdChannelID
	}

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord alerts disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	logger.Info("discord bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("channelID", channelID),
	)

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: channelID,
		isProd:    cfg.IsProd,
	}
}

// SendTradeAlert sends a rich embedded trade alert.
// Implements notifier.Notifier interface.
func (dc *DiscordClient) SendTradeAlert(alert notifier.TradeAlert) {
	if dc.session == nil {
		dc.logger.Warn("discord session not initialized, skipping alert")
		return
	}

	embed := dc.buildTradeEmbed(alert)

	_, err := dc.session.ChannelMessageSendEmbed(dc.channelID, embed)
	if err != nil {
		dc.logger.Error("failed to send discord embed", zap.Error(err))
		return
	}

	dc.logger.Info("sent discord trade alert",
		zap.String("wallet", alert.WalletLabel),
		zap.String("token", alert.TokenSymbol),
	)
}

func (dc *DiscordClient) buildTradeEmbed(alert notifier.TradeAlert) *discordgo.MessageEmbed {
	// Choose color based on side
	color := 0x2ECC71 // Green for buy
	sideEmoji := "🟢"
	if alert.Action == notifier.ActionSell {
		color = 0xE74C3C // Red for sell
		sideEmoji = "🔴"
	}

	walletDisplay := alert.WalletLabel
	shortAddr := shortAddress(alert.WalletAddress)
	if walletDisplay == "" {
		walletDisplay = shortAddr
	} else if walletDisplay != shortAddr {
		walletDisplay = fmt.Sprintf("%s (%s)", alert.WalletLabel, shortAddr)
	}

	token := alert.TokenSymbol
	if token == "" {
		token = shortAddress(alert.TokenMint)
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Wallet",
			Value:  walletDisplay,
			Inline: true,
		},
		{
			Name:   "Side",
			Value:  fmt.Sprintf("%s %s", sideEmoji, strings.ToUpper(string(alert.Action))),
			Inline: true,
		},
		{
			Name:   "Token",
			Value:  token,
			Inline: true,
		},
		{
			Name:   "Trade",
			Value:  fmt.Sprintf("%.2f tokens (~$%.2f)", alert.Amount, alert.Value),
			Inline: true,
		},
		{
			Name:   "Win Rate",
			Value:  fmt.Sprintf("%.1f%%", alert.WinRate),
			Inline: true,
		},
		{
			Name:   "Total ROI",
			Value:  fmt.Sprintf("%+.1f%%", alert.TotalRoi),
			Inline: true,
		},
		{
			Name:   "30d P&L",
			Value:  fmt.Sprintf("%+.2f", alert.Last30DaysPnl),
			Inline: true,
		},
	}

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return &discordgo.MessageEmbed{
		Title:     "💸 Smart Money Activity",
		Color:     color,
		Fields:    fields,
		Timestamp: ts.Format(time.RFC3339),
	}
}

// Close cleans up resources. Implements notifier.Notifier interface.
func (dc *DiscordClient) Close() error {
	if dc.session == nil {
		return nil
	}
	return dc.session.Close()
}

func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-6:]
}
