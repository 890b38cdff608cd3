package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/metrics"
	"gitlab.com/gemvault/storefront/internal/repository"
	"gitlab.com/gemvault/storefront/internal/storage"
)

var errShutdown = errors.New("publisher shutdown during batch processing")

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher drains the outbox table into the producer.
type Publisher struct {
	db             db.DB
	repo           storage.OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	logger         *zap.Logger
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
	timeNow        func() time.Time
}

func NewPublisher(database db.DB, repo storage.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		db:             database,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger.With(zap.String("component", "outbox_publisher")),
		shutdownSignal: make(chan struct{}),
		timeNow:        time.Now,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("starting outbox publisher",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize))
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil && !errors.Is(err, errShutdown) && ctx.Err() == nil {
				p.logger.Error("failed to process outbox batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.logger.Info("outbox publisher context cancelled, stopping")
			return
		}
	}
}

// Shutdown stops the poll loop, waits for the current batch and closes the
// producer. Safe to call more than once.
func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		p.logger.Info("initiating outbox publisher shutdown")
		close(p.shutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("outbox publisher shutdown complete")
		case <-shutdownCtx.Done():
			p.logger.Warn("outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("failed to close producer", zap.Error(err))
		}
	})
}

// ProcessBatch claims one batch of tasks and publishes them.
func (p *Publisher) ProcessBatch(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}

	tasks, err := p.repo.GetProcessableTasksTx(ctx, tx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to get processable tasks: %w", err)
	}
	if len(tasks) == 0 {
		return tx.Commit(ctx)
	}

	for _, task := range tasks {
		if err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction after marking tasks as PROCESSING: %w", err)
	}
	p.logger.Debug("fetched outbox tasks", zap.Int("count", len(tasks)))

	for _, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.logger.Warn("shutdown during batch, task left for the next run", zap.Stringer("task_id", task.ID))
			return errShutdown
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("failed to process outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}
	return nil
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	logger := p.logger.With(
		zap.Stringer("task_id", task.ID),
		zap.String("topic", task.Topic),
		zap.Int("attempt", task.Attempts+1))

	key := task.MessageKey
	if key == "" {
		key = task.ID.String()
	}

	if err := p.producer.SendMessage(ctx, task.Topic, []byte(key), task.Payload); err != nil {
		metrics.OutboxPublishedTotal.WithLabelValues("failed").Inc()
		attempts := task.Attempts + 1
		errMsg := err.Error()
		if attempts >= p.config.MaxAttempts {
			logger.Error("outbox task reached max attempts, giving up", zap.Error(err))
		} else {
			logger.Warn("failed to send outbox task, will retry", zap.Error(err))
		}

		if updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w", updateErr)
		}
		return err
	}

	metrics.OutboxPublishedTotal.WithLabelValues("done").Inc()
	now := p.timeNow().UTC()
	if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	logger.Debug("outbox task published")
	return nil
}
