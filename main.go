package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clts "github.com/basel95f-code/solana-memecoin-bot-sub005/clients"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/internal/app"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load config from environment variables
	cfg := config.Load()
	logger.Info("starting tracker", zap.Bool("isProd", cfg.IsProd))

	logger.Info("instantiating clients")
	clients := clts.NewClients(logger, cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	runner := app.NewRunner(clients, cfg)
	if err := runner.Run(ctx); err != nil {
		logger.Fatal("runner failed", zap.Error(err))
	}
}
