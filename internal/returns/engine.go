//go:generate mockgen -source ./engine.go -destination=./mocks/store.go -package=mock_returns
package returns

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/metrics"
	"gitlab.com/gemvault/storefront/internal/refund"
)

const (
	ActorSystem = "system"

	SourceAdmin    = "admin"
	SourceCourier  = "courier"
	SourceCustomer = "customer"
	SourceOverride = "override"
	SourceAuto     = "automation"
)

// Store is the persistence the engine needs. Every mutation goes through
// UpdateReturn or CreateReturn so it happens under a row lock.
type Store interface {
	GetReturn(ctx context.Context, id string) (*domain.Return, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	FindOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	FindOrdersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.Order, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUsersByNamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.User, error)
	FindUsersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.User, error)
	ListReturnsByOrder(ctx context.Context, orderID string) ([]*domain.Return, error)
	CreateReturn(ctx context.Context, r *domain.Return, mutateOrder func(*domain.Order) error) error
	UpdateReturn(ctx context.Context, id string, fn func(*domain.Return) error) (*domain.Return, error)
}

// Policy holds the storefront return rules.
type Policy struct {
	WindowDays           int
	ShippingCost         decimal.Decimal
	RestockingFeePercent decimal.Decimal
}

type Engine struct {
	store   Store
	refunds refund.Processor
	policy  Policy
	logger  *zap.Logger
	timeNow func() time.Time
}

func NewEngine(store Store, refunds refund.Processor, policy Policy, logger *zap.Logger) *Engine {
	return &Engine{
		store:   store,
		refunds: refunds,
		policy:  policy,
		logger:  logger.With(zap.String("component", "returns")),
		timeNow: time.Now,
	}
}

func (e *Engine) now() time.Time {
	return e.timeNow().UTC()
}

// refund calls the processor and records the outcome on r. The caller
// decides which transitions follow.
func (e *Engine) refund(ctx context.Context, r *domain.Return, amount decimal.Decimal, method, reason string, at time.Time) error {
	if !amount.IsPositive() {
		metrics.RefundsTotal.WithLabelValues("rejected").Inc()
		return &domain.ValidationError{Field: "refundAmount", Message: "refund amount must be positive"}
	}
	if amount.GreaterThan(r.RefundDetails.OriginalAmount) {
		metrics.RefundsTotal.WithLabelValues("rejected").Inc()
		return &domain.ValidationError{
			Field:   "refundAmount",
			Message: "refund amount " + amount.StringFixed(2) + " exceeds original amount " + r.RefundDetails.OriginalAmount.StringFixed(2),
		}
	}

	res, err := e.refunds.Refund(ctx, refund.Request{
		ReturnID:     r.ID,
		ReturnNumber: r.ReturnNumber,
		OrderID:      r.OrderID,
		OrderNumber:  r.OrderNumber,
		Amount:       amount,
		Method:       method,
		Reason:       reason,
	})
	if err != nil {
		metrics.RefundsTotal.WithLabelValues("failed").Inc()
		var ext *domain.ExternalIntegrationError
		if errors.As(err, &ext) {
			return err
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return &domain.ExternalIntegrationError{Op: "refund", Err: err}
	}
	metrics.RefundsTotal.WithLabelValues("succeeded").Inc()

	if res.Method != "" {
		method = res.Method
	}
	processedAt := res.ProcessedAt
	if processedAt.IsZero() {
		processedAt = at
	}
	recordRefund(r, amount, method, res.TransactionID, processedAt)
	return nil
}

func recordRefund(r *domain.Return, amount decimal.Decimal, method, transactionID string, at time.Time) {
	processedAt := at
	r.RefundDetails.RefundAmount = amount
	r.RefundDetails.RefundMethod = method
	r.RefundDetails.RefundTransactionID = transactionID
	r.RefundDetails.RefundProcessedAt = &processedAt
}

// countTransitions records the history entries appended since before.
func countTransitions(r *domain.Return, before int, source string) {
	if r == nil || before > len(r.StatusHistory) {
		return
	}
	for _, h := range r.StatusHistory[before:] {
		metrics.ReturnTransitionsTotal.WithLabelValues(string(h.Status), source).Inc()
	}
}
