package refund

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoopProcessor approves every refund without moving money. It is meant for
// local runs where no gateway is configured.
type NoopProcessor struct {
	logger *zap.Logger
}

func NewNoopProcessor(logger *zap.Logger) *NoopProcessor {
	return &NoopProcessor{logger: logger}
}

func (p *NoopProcessor) Refund(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := "manual-" + uuid.NewString()
	p.logger.Warn("refund recorded without gateway",
		zap.String("reference", req.IdempotencyKey()),
		zap.String("transaction_id", id),
		zap.String("amount", req.Amount.String()))
	return &Result{TransactionID: id, Method: req.Method, ProcessedAt: time.Now().UTC()}, nil
}
