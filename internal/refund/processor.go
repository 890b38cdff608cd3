//go:generate mockgen -source ./processor.go -destination=./mocks/processor.go -package=mock_refund
package refund

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Request struct {
	ReturnID     string
	ReturnNumber string
	OrderID      string
	OrderNumber  string
	Amount       decimal.Decimal
	Method       string
	Reason       string
}

// IdempotencyKey identifies the refund at the gateway so a retried call
// for the same return cannot pay out twice. It is empty when the request
// names no return.
func (r Request) IdempotencyKey() string {
	switch {
	case r.ReturnNumber != "":
		return "refund-" + r.ReturnNumber
	case r.ReturnID != "":
		return "refund-" + r.ReturnID
	}
	return ""
}

type Result struct {
	TransactionID string
	Method        string
	ProcessedAt   time.Time
}

// Processor moves money back to the customer.
type Processor interface {
	Refund(ctx context.Context, req Request) (*Result, error)
}
