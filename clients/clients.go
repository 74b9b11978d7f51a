package clients

import (
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/chainstream"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/discord"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/notifier"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/priceapi"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/telegram"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Discord  *discord.DiscordClient
	Telegram *telegram.TelegramClient
	Notifier notifier.Notifier // Combined notifier for all channels
	PriceAPI *priceapi.PriceApiClient
	Stream   *chainstream.ChainStreamClient
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	discordClient := discord.NewDiscordClient(logger, cfg)
	telegramClient := telegram.NewTelegramClient(logger, cfg)

	// Create combined notifier for all channels
	multiNotifier := notifier.NewMultiNotifier(discordClient, telegramClient)

	return &Clients{
		Logger:   logger,
		Discord:  discordClient,
		Telegram: telegramClient,
		Notifier: multiNotifier,
		PriceAPI: priceapi.NewPriceApiClient(logger, cfg),
		Stream:   chainstream.NewChainStreamClient(logger, cfg.Stream.WSURL, cfg.Stream.PingInterval),
	}
}
