package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.com/gemvault/storefront/internal/db"
	mock_db "gitlab.com/gemvault/storefront/internal/db/mocks"
	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
	mock_storage "gitlab.com/gemvault/storefront/internal/storage/mocks"
)

type storageMocks struct {
	db      *mock_db.MockDB
	tx      *mock_db.MockTx
	orders  *mock_storage.MockOrderRepository
	returns *mock_storage.MockReturnRepository
	users   *mock_storage.MockUserRepository
	counter *mock_storage.MockCounterRepository
	outbox  *mock_storage.MockOutboxTaskRepository
}

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) (*Storage, storageMocks) {
	ctrl := gomock.NewController(t)
	m := storageMocks{
		db:      mock_db.NewMockDB(ctrl),
		tx:      mock_db.NewMockTx(ctrl),
		orders:  mock_storage.NewMockOrderRepository(ctrl),
		returns: mock_storage.NewMockReturnRepository(ctrl),
		users:   mock_storage.NewMockUserRepository(ctrl),
		counter: mock_storage.NewMockCounterRepository(ctrl),
		outbox:  mock_storage.NewMockOutboxTaskRepository(ctrl),
	}
	s := NewStorage(m.db, m.orders, m.returns, m.users, m.counter, m.outbox)
	s.timeNow = func() time.Time { return fixedTime }
	return s, m
}

func orderRow(t *testing.T, o *domain.Order) *repository.Order {
	row, err := orderToRow(o)
	require.NoError(t, err)
	return row
}

func returnRow(t *testing.T, r *domain.Return) *repository.Return {
	row, err := returnToRow(r)
	require.NoError(t, err)
	return row
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:          "ord-1",
		OrderNumber: "ORD-1001",
		UserID:      "usr-1",
		Status:      domain.OrderStatusDelivered,
		Items: []domain.OrderItem{
			{ProductID: "ring-1", Name: "Solitaire Ring", Price: decimal.NewFromInt(1500), Quantity: 2},
		},
		TotalAmount: decimal.NewFromInt(3000),
	}
}

func newReturn(status domain.ReturnStatus, qty int) *domain.Return {
	return &domain.Return{
		OrderID: "ord-1",
		UserID:  "usr-1",
		Items:   []domain.ReturnItem{{ProductID: "ring-1", Quantity: qty, Price: decimal.NewFromInt(1500)}},
		Status:  status,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: status, Timestamp: fixedTime, UpdatedBy: "usr-1"},
		},
		Source: domain.SourceWebsite,
	}
}

func TestStorage_CreateReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, m := newTestStorage(t)
		ret := newReturn(domain.ReturnStatusRequested, 1)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, testOrder()), nil)
		m.returns.EXPECT().ListByOrderTx(ctx, m.tx, "ord-1").Return(nil, nil)
		m.counter.EXPECT().NextReturnSequenceTx(ctx, m.tx).Return(int64(7), nil)
		m.returns.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, row *repository.Return) error {
				assert.Equal(t, "RET-20240115-000007", row.ReturnNumber)
				assert.Equal(t, "requested", row.Status)
				assert.Nil(t, row.PickupAWB)
				return nil
			})
		m.outbox.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				assert.Equal(t, domain.TopicReturnStatusChanged, task.Topic)
				assert.Equal(t, ret.ID, task.MessageKey)
				var payload domain.ReturnStatusChanged
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, domain.ReturnStatusRequested, payload.To)
				return nil
			})
		m.tx.EXPECT().Commit(ctx).Return(nil)

		require.NoError(t, s.CreateReturn(ctx, ret, nil))
		assert.NotEmpty(t, ret.ID)
		assert.Equal(t, "RET-20240115-000007", ret.ReturnNumber)
	})

	t.Run("active return exists", func(t *testing.T) {
		s, m := newTestStorage(t)
		active := newReturn(domain.ReturnStatusPickupScheduled, 1)
		active.ID = "ret-old"

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, testOrder()), nil)
		m.returns.EXPECT().ListByOrderTx(ctx, m.tx, "ord-1").Return([]*repository.Return{returnRow(t, active)}, nil)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		err := s.CreateReturn(ctx, newReturn(domain.ReturnStatusRequested, 1), nil)
		assert.ErrorIs(t, err, domain.ErrActiveReturnExists)
	})

	t.Run("terminal return does not block but counts quantity", func(t *testing.T) {
		s, m := newTestStorage(t)
		done := newReturn(domain.ReturnStatusCompleted, 2)
		done.ID = "ret-old"

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, testOrder()), nil)
		m.returns.EXPECT().ListByOrderTx(ctx, m.tx, "ord-1").Return([]*repository.Return{returnRow(t, done)}, nil)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		err := s.CreateReturn(ctx, newReturn(domain.ReturnStatusRequested, 1), nil)
		var ve *domain.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("order not found", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(nil, repository.ErrObjectNotFound)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		err := s.CreateReturn(ctx, newReturn(domain.ReturnStatusRequested, 1), nil)
		var nf *domain.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "order", nf.Entity)
	})

	t.Run("paid refund past order total refused under lock", func(t *testing.T) {
		s, m := newTestStorage(t)
		paidAt := fixedTime.Add(-time.Hour)
		earlier := newReturn(domain.ReturnStatusCompleted, 0)
		earlier.ID = "ret-old"
		earlier.Items = nil
		earlier.RefundDetails.RefundAmount = decimal.NewFromInt(2500)
		earlier.RefundDetails.RefundProcessedAt = &paidAt

		ret := newReturn(domain.ReturnStatusCompleted, 0)
		ret.Items = nil
		ret.RefundDetails.RefundAmount = decimal.NewFromInt(1000)
		ret.RefundDetails.RefundProcessedAt = &paidAt

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, testOrder()), nil)
		m.returns.EXPECT().ListByOrderTx(ctx, m.tx, "ord-1").Return([]*repository.Return{returnRow(t, earlier)}, nil)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		err := s.CreateReturn(ctx, ret, nil)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "amount", ve.Field)
	})

	t.Run("order mutation saved in same transaction", func(t *testing.T) {
		s, m := newTestStorage(t)
		ret := newReturn(domain.ReturnStatusCompleted, 0)
		ret.Items = nil

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, testOrder()), nil)
		m.returns.EXPECT().ListByOrderTx(ctx, m.tx, "ord-1").Return(nil, nil)
		m.counter.EXPECT().NextReturnSequenceTx(ctx, m.tx).Return(int64(8), nil)
		m.returns.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).Return(nil)
		m.orders.EXPECT().UpdateTx(ctx, m.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, row *repository.Order) error {
				assert.Equal(t, "refunded", row.Status)
				return nil
			})
		m.outbox.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).Return(nil).Times(2)
		m.tx.EXPECT().Commit(ctx).Return(nil)

		err := s.CreateReturn(ctx, ret, func(o *domain.Order) error {
			o.MarkRefunded("admin", fixedTime)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("begin error", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.db.EXPECT().BeginTx(ctx).Return(nil, errors.New("pool closed"))

		err := s.CreateReturn(ctx, newReturn(domain.ReturnStatusRequested, 1), nil)
		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}

func TestStorage_UpdateReturn(t *testing.T) {
	ctx := context.Background()
	stored := newReturn(domain.ReturnStatusRequested, 1)
	stored.ID = "ret-1"
	stored.ReturnNumber = "RET-20240115-000001"

	t.Run("transition persisted with outbox event", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.returns.EXPECT().GetByIDTx(ctx, m.tx, "ret-1").Return(returnRow(t, stored), nil)
		m.returns.EXPECT().UpdateTx(ctx, m.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, row *repository.Return) error {
				assert.Equal(t, "approved", row.Status)
				return nil
			})
		m.outbox.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(ctx).Return(nil)

		got, err := s.UpdateReturn(ctx, "ret-1", func(r *domain.Return) error {
			r.Transition(domain.ReturnStatusApproved, "admin-1", "", fixedTime)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReturnStatusApproved, got.Status)
		assert.Len(t, got.StatusHistory, 2)
	})

	t.Run("unchanged rolls back and returns loaded entity", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.returns.EXPECT().GetByIDTx(ctx, m.tx, "ret-1").Return(returnRow(t, stored), nil)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		got, err := s.UpdateReturn(ctx, "ret-1", func(r *domain.Return) error {
			return ErrUnchanged
		})
		assert.ErrorIs(t, err, ErrUnchanged)
		require.NotNil(t, got)
		assert.Equal(t, domain.ReturnStatusRequested, got.Status)
	})

	t.Run("reopening beside an open return", func(t *testing.T) {
		s, m := newTestStorage(t)
		cancelled := newReturn(domain.ReturnStatusCancelled, 1)
		cancelled.ID = "ret-1"

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.returns.EXPECT().GetByIDTx(ctx, m.tx, "ret-1").Return(returnRow(t, cancelled), nil)
		m.returns.EXPECT().UpdateTx(ctx, m.tx, gomock.Any()).Return(domain.ErrActiveReturnExists)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := s.UpdateReturn(ctx, "ret-1", func(r *domain.Return) error {
			return r.Force(domain.ReturnStatusRequested, "admin-1", "reopen", fixedTime)
		})
		assert.ErrorIs(t, err, domain.ErrActiveReturnExists)
	})

	t.Run("history mismatch refused", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.returns.EXPECT().GetByIDTx(ctx, m.tx, "ret-1").Return(returnRow(t, stored), nil)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := s.UpdateReturn(ctx, "ret-1", func(r *domain.Return) error {
			r.Status = domain.ReturnStatusApproved
			return nil
		})
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
		m.returns.EXPECT().GetByIDTx(ctx, m.tx, "missing").Return(nil, repository.ErrObjectNotFound)
		m.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := s.UpdateReturn(ctx, "missing", func(r *domain.Return) error { return nil })
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestStorage_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	s, m := newTestStorage(t)
	order := testOrder()
	order.Status = domain.OrderStatusShipped

	m.db.EXPECT().BeginTx(ctx).Return(m.tx, nil)
	m.orders.EXPECT().GetByIDTx(ctx, m.tx, "ord-1").Return(orderRow(t, order), nil)
	m.orders.EXPECT().UpdateTx(ctx, m.tx, gomock.Any()).Return(nil)
	m.outbox.EXPECT().CreateTx(ctx, m.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
			assert.Equal(t, domain.TopicOrderStatusChanged, task.Topic)
			return nil
		})
	m.tx.EXPECT().Commit(ctx).Return(nil)

	got, err := s.UpdateOrder(ctx, "ord-1", func(o *domain.Order) error {
		o.AdvanceStatus(domain.OrderStatusDelivered, "courier", fixedTime)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, got.Status)
}

func TestStorage_GetReturn_NotFound(t *testing.T) {
	s, m := newTestStorage(t)
	m.returns.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, repository.ErrObjectNotFound)

	_, err := s.GetReturn(context.Background(), "missing")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "return", nf.Entity)
}

func TestStorage_ReturnedQuantities(t *testing.T) {
	s, m := newTestStorage(t)
	live := newReturn(domain.ReturnStatusInTransit, 1)
	cancelled := newReturn(domain.ReturnStatusCancelled, 1)

	m.returns.EXPECT().ListByOrder(gomock.Any(), "ord-1").
		Return([]*repository.Return{returnRow(t, live), returnRow(t, cancelled)}, nil)

	qty, err := s.ReturnedQuantities(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ring-1": 1}, qty)
}
