package returns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	mock_refund "gitlab.com/gemvault/storefront/internal/refund/mocks"
	mock_returns "gitlab.com/gemvault/storefront/internal/returns/mocks"
	"gitlab.com/gemvault/storefront/internal/storage"
)

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type engineMocks struct {
	store   *mock_returns.MockStore
	refunds *mock_refund.MockProcessor
}

func newTestEngine(t *testing.T) (*Engine, engineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := engineMocks{
		store:   mock_returns.NewMockStore(ctrl),
		refunds: mock_refund.NewMockProcessor(ctrl),
	}
	e := NewEngine(m.store, m.refunds, Policy{
		WindowDays:           7,
		ShippingCost:         decimal.NewFromInt(100),
		RestockingFeePercent: decimal.Zero,
	}, zap.NewNop())
	e.timeNow = func() time.Time { return fixedTime }
	return e, m
}

func clone(t *testing.T, r *domain.Return) *domain.Return {
	t.Helper()
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var out domain.Return
	require.NoError(t, json.Unmarshal(raw, &out))
	return &out
}

// applyTo mimics storage.UpdateReturn on an in-memory return: fn runs on a
// copy that replaces the original only when fn succeeds.
func applyTo(t *testing.T, ret *domain.Return) func(context.Context, string, func(*domain.Return) error) (*domain.Return, error) {
	return func(_ context.Context, _ string, fn func(*domain.Return) error) (*domain.Return, error) {
		work := clone(t, ret)
		if err := fn(work); err != nil {
			if errors.Is(err, storage.ErrUnchanged) {
				return clone(t, ret), err
			}
			return nil, err
		}
		*ret = *clone(t, work)
		return clone(t, ret), nil
	}
}

func newReturnAt(status domain.ReturnStatus) *domain.Return {
	at := fixedTime.Add(-48 * time.Hour)
	return &domain.Return{
		ID:           "ret-1",
		ReturnNumber: "RET-20240113-000001",
		OrderID:      "ord-1",
		OrderNumber:  "ORD-1001",
		UserID:       "user-1",
		Status:       status,
		Items: []domain.ReturnItem{
			{ProductID: "ring-1", Name: "Gold Ring", Price: decimal.NewFromInt(1500), Quantity: 1, Condition: domain.ConditionUnused},
		},
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: status, Timestamp: at, UpdatedBy: "user-1"},
		},
		RefundDetails: domain.RefundDetails{
			OriginalAmount:     decimal.NewFromInt(1500),
			ReturnShippingCost: decimal.NewFromInt(100),
			RestockingFee:      decimal.Zero,
			RefundAmount:       decimal.NewFromInt(1400),
		},
		AdminNotes: []domain.AdminNote{},
		Source:     domain.SourceWebsite,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func historyStatuses(r *domain.Return) []domain.ReturnStatus {
	out := make([]domain.ReturnStatus, len(r.StatusHistory))
	for i, h := range r.StatusHistory {
		out[i] = h.Status
	}
	return out
}

func newDeliveredOrder() *domain.Order {
	delivered := fixedTime.Add(-72 * time.Hour)
	return &domain.Order{
		ID:            "ord-1",
		OrderNumber:   "ORD-1001",
		UserID:        "user-1",
		Status:        domain.OrderStatusDelivered,
		TotalAmount:   decimal.NewFromInt(4500),
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentMethod: domain.PaymentMethodOnline,
		Items: []domain.OrderItem{
			{ProductID: "ring-1", Name: "Gold Ring", Price: decimal.NewFromInt(1500), Quantity: 1},
			{ProductID: "chain-1", Name: "Silver Chain", Price: decimal.NewFromInt(1500), Quantity: 2},
		},
		ShippingAddress: domain.Address{Name: "Asha Rao", City: "Jaipur", PostalCode: "302001"},
		Shipping:        domain.Shipping{DeliveredAt: &delivered},
	}
}
