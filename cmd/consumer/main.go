package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/config"
	"gitlab.com/gemvault/storefront/internal/logger"
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

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		GroupTopics:    cfg.Kafka.Topics,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		zapLogger.Info("closing kafka reader")
		if err := r.Close(); err != nil {
			zapLogger.Error("failed to close kafka reader", zap.Error(err))
		}
	}()

	zapLogger.Info("consumer started",
		zap.Strings("topics", cfg.Kafka.Topics),
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("group", cfg.Kafka.GroupID))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				zapLogger.Info("shutdown signal received, stopping consumer")
				return
			}
			zapLogger.Error("failed to read message", zap.Error(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		zapLogger.Info("event",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Time("timestamp", m.Time),
			zap.ByteString("key", m.Key),
			zap.ByteString("value", m.Value))
	}
}
