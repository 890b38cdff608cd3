package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/cli"
	"gitlab.com/gemvault/storefront/internal/config"
	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/logger"
	"gitlab.com/gemvault/storefront/internal/refund"
	"gitlab.com/gemvault/storefront/internal/repository/postgresql"
	"gitlab.com/gemvault/storefront/internal/returns"
	"gitlab.com/gemvault/storefront/internal/storage"
)

// reconcile runs one command given as arguments, or an interactive session
// without them.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	zapLogger := logger.New(cfg.App.LogLevel)
	defer zapLogger.Sync() //nolint:errcheck

	dbPool, err := db.NewDb(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		zapLogger.Fatal("database init error", zap.Error(err))
	}
	defer dbPool.Close()

	stg := storage.NewStorage(
		dbPool,
		postgresql.NewOrderRepo(dbPool),
		postgresql.NewReturnRepo(dbPool),
		postgresql.NewUserRepo(dbPool),
		postgresql.NewCounterRepo(),
		postgresql.NewOutboxTaskRepo(),
	)

	var processor refund.Processor = refund.NewNoopProcessor(zapLogger)
	if cfg.Refund.BaseURL != "" {
		processor = refund.NewGatewayClient(refund.GatewayConfig{
			BaseURL:  cfg.Refund.BaseURL,
			APIKey:   cfg.Refund.APIKey,
			Currency: cfg.Refund.Currency,
			Timeout:  cfg.Refund.Timeout,
		}, zapLogger)
	}
	engine := returns.NewEngine(stg, processor, returns.Policy{
		WindowDays:           cfg.Returns.WindowDays,
		ShippingCost:         cfg.Returns.ShippingCost,
		RestockingFeePercent: cfg.Returns.RestockingFeePercent,
	}, zapLogger)

	h := cli.New(stg, engine, os.Stdout)

	if args := os.Args[1:]; len(args) > 0 {
		if err := h.Execute(ctx, args); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	h.HandleHelp()
	if err := h.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		zapLogger.Error("reading commands", zap.Error(err))
	}
}
