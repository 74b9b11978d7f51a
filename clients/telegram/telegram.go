package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/notifier"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramClient sends alerts to Telegram.
// Implements notifier.Notifier interface.
type TelegramClient struct {
	logger *zap.Logger
	bot    *tgbotapi.BotAPI
	chatID int64
	isProd bool
}

func NewTelegramClient(logger *zap.Logger, cfg *config.Config) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	chatID := cfg.Telegram.BetaChatID
	if cfg.IsProd {
		chatID = cfg.Telegram.ProdChatID
	}

	token := cfg.Telegram.BotToken
	if token == "" {
		logger.Warn("TELEGRAM_BOT_KEY not set, Telegram alerts disabled")
		return &TelegramClient{
			logger: logger,
			chatID: chatID,
			isProd: cfg.IsProd,
		}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("failed to create telegram bot", zap.Error(err))
		return &TelegramClient{
			logger: logger,
			chatID: chatID,
			isProd: cfg.IsProd,
		}
	}

	logger.Info("telegram bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.Int64("chatID", chatID),
		zap.String("username", bot.Self.UserName),
	)

	return &TelegramClient{
		logger: logger,
		bot:    bot,
		chatID: chatID,
		isProd: cfg.IsProd,
	}
}

// SendTradeAlert sends a trade alert notification.
// Implements notifier.Notifier interface.
func (tc *TelegramClient) SendTradeAlert(alert notifier.TradeAlert) {
	if tc.bot == nil || tc.chatID == 0 {
		tc.logger.Warn("telegram not configured, skipping alert")
		return
	}

	msg := tgbotapi.NewMessage(tc.chatID, tc.buildAlertMessage(alert))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := tc.bot.Send(msg); err != nil {
		tc.logger.Error("failed to send telegram message", zap.Error(err))
		return
	}

	tc.logger.Info("sent telegram trade alert",
		zap.String("wallet", alert.WalletLabel),
		zap.String("token", alert.TokenSymbol),
	)
}

func (tc *TelegramClient) buildAlertMessage(alert notifier.TradeAlert) string {
	var sb strings.Builder

	sideEmoji := "🟢"
	if alert.Action == notifier.ActionSell {
		sideEmoji = "🔴"
	}
	sb.WriteString(fmt.Sprintf("*💸 Smart Money %s*\n\n", strings.ToUpper(string(alert.Action))))

	walletDisplay := alert.WalletLabel
	shortAddr := shortAddress(alert.WalletAddress)
	if walletDisplay == "" {
		walletDisplay = shortAddr
	} else if walletDisplay != shortAddr {
		walletDisplay = fmt.Sprintf("%s (%s)", alert.WalletLabel, shortAddr)
	}
	sb.WriteString(fmt.Sprintf("*Wallet:* %s\n", escapeMarkdown(walletDisplay)))

	token := alert.TokenSymbol
	if token == "" {
		token = shortAddress(alert.TokenMint)
	}
	sb.WriteString(fmt.Sprintf("*Token:* %s\n", escapeMarkdown(token)))
	sb.WriteString(fmt.Sprintf("*Side:* %s %s\n", sideEmoji, strings.ToUpper(string(alert.Action))))
	sb.WriteString(fmt.Sprintf("*Trade:* %.2f tokens (~$%.2f)\n\n", alert.Amount, alert.Value))

	sb.WriteString(fmt.Sprintf("*Win Rate:* %.1f%%\n", alert.WinRate))
	sb.WriteString(fmt.Sprintf("*Total ROI:* %+.1f%%\n", alert.TotalRoi))
	sb.WriteString(fmt.Sprintf("*30d P&L:* %+.2f\n", alert.Last30DaysPnl))

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(fmt.Sprintf("\n_%s_", ts.UTC().Format("1/2/2006, 3:04:05PM (UTC)")))

	return sb.String()
}

// Close cleans up resources. Implements notifier.Notifier interface.
func (tc *TelegramClient) Close() error {
	return nil
}

func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-6:]
}

// escapeMarkdown escapes special characters for Telegram Markdown.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
