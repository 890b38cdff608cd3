package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.com/gemvault/storefront/internal/auth"
	"gitlab.com/gemvault/storefront/internal/config"
	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/idempotency"
	"gitlab.com/gemvault/storefront/internal/kafka"
	"gitlab.com/gemvault/storefront/internal/logger"
	"gitlab.com/gemvault/storefront/internal/refund"
	"gitlab.com/gemvault/storefront/internal/repository/postgresql"
	"gitlab.com/gemvault/storefront/internal/returns"
	"gitlab.com/gemvault/storefront/internal/server"
	"gitlab.com/gemvault/storefront/internal/storage"
	"gitlab.com/gemvault/storefront/internal/webhook"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	zapLogger := logger.New(cfg.App.LogLevel)
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
	zapLogger.Info("server gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	dbPool, err := db.NewDb(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := db.SeedAdmin(ctx, dbPool, cfg.Admin.Email, cfg.Admin.Password, zapLogger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	outboxRepo := postgresql.NewOutboxTaskRepo()
	stg := storage.NewStorage(
		dbPool,
		postgresql.NewOrderRepo(dbPool),
		postgresql.NewReturnRepo(dbPool),
		postgresql.NewUserRepo(dbPool),
		postgresql.NewCounterRepo(),
		outboxRepo,
	)

	engine := returns.NewEngine(stg, newRefundProcessor(cfg.Refund, zapLogger), returns.Policy{
		WindowDays:           cfg.Returns.WindowDays,
		ShippingCost:         cfg.Returns.ShippingCost,
		RestockingFeePercent: cfg.Returns.RestockingFeePercent,
	}, zapLogger)

	deliveries, err := newDeliveryStore(ctx, cfg.Redis, zapLogger)
	if err != nil {
		return err
	}

	verifiers, err := newVerifiers(cfg.Webhook)
	if err != nil {
		return err
	}
	hooks := webhook.NewService(stg, engine, deliveries, verifiers, zapLogger)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	srv := server.New(engine, stg, hooks, auth.NewLoginService(stg, tokens), tokens, zapLogger)

	producer, err := newProducer(cfg.Kafka, zapLogger)
	if err != nil {
		return err
	}
	publisher := kafka.NewPublisher(dbPool, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.Kafka.PollInterval,
		BatchSize:    cfg.Kafka.BatchSize,
		MaxAttempts:  cfg.Kafka.MaxAttempts,
	}, zapLogger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gCtx, ":"+cfg.App.Port)
	})

	g.Go(func() error {
		publisher.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		zapLogger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		publisher.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newRefundProcessor(cfg config.RefundConfig, zapLogger *zap.Logger) refund.Processor {
	if cfg.BaseURL == "" {
		zapLogger.Warn("REFUND_GATEWAY_URL is not set, refunds are recorded as manual")
		return refund.NewNoopProcessor(zapLogger)
	}
	return refund.NewGatewayClient(refund.GatewayConfig{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Currency: cfg.Currency,
		Timeout:  cfg.Timeout,
	}, zapLogger)
}

func newDeliveryStore(ctx context.Context, cfg config.RedisConfig, zapLogger *zap.Logger) (webhook.DeliveryStore, error) {
	if cfg.Addr == "" {
		zapLogger.Info("REDIS_ADDR is not set, using in-process delivery dedup")
		return idempotency.NewMemoryStore(cfg.DeliveryTTL), nil
	}
	client, err := idempotency.Connect(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, err
	}
	return idempotency.NewRedisStore(client, cfg.DeliveryTTL), nil
}

func newVerifiers(cfg config.WebhookConfig) (webhook.Verifiers, error) {
	forward, err := webhook.NewVerifier(cfg.AuthMode, cfg.ForwardSecret)
	if err != nil {
		return webhook.Verifiers{}, fmt.Errorf("shipment webhook: %w", err)
	}
	reverse, err := webhook.NewVerifier(cfg.AuthMode, cfg.ReverseSecret)
	if err != nil {
		return webhook.Verifiers{}, fmt.Errorf("return webhook: %w", err)
	}
	tracking, err := webhook.NewVerifier(cfg.AuthMode, cfg.LabelSecret)
	if err != nil {
		return webhook.Verifiers{}, fmt.Errorf("tracking webhook: %w", err)
	}
	return webhook.Verifiers{Forward: forward, Reverse: reverse, Tracking: tracking}, nil
}

func newProducer(cfg config.KafkaConfig, zapLogger *zap.Logger) (kafka.Producer, error) {
	if cfg.Producer == "console" {
		return kafka.NewConsoleProducer(zapLogger), nil
	}
	return kafka.NewKafkaProducer(cfg.Brokers, zapLogger)
}
