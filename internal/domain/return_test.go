package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReturn(status ReturnStatus) *Return {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return &Return{
		ID:           "ret-1",
		ReturnNumber: "RET-20240110-000001",
		OrderID:      "ord-1",
		Status:       status,
		StatusHistory: []StatusHistoryEntry{
			{Status: status, Timestamp: at, UpdatedBy: "system"},
		},
	}
}

func TestReturn_Advance(t *testing.T) {
	at := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)

	t.Run("forward skip allowed", func(t *testing.T) {
		r := newTestReturn(ReturnStatusPickupScheduled)
		require.NoError(t, r.Advance(ReturnStatusInTransit, "courier", "", at))
		assert.Equal(t, ReturnStatusInTransit, r.Status)
		assert.Len(t, r.StatusHistory, 2)
		assert.NoError(t, r.CheckHistory())

		events := r.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, TopicReturnStatusChanged, events[0].Topic)
		payload := events[0].Payload.(ReturnStatusChanged)
		assert.Equal(t, ReturnStatusPickupScheduled, payload.From)
		assert.Equal(t, ReturnStatusInTransit, payload.To)
		assert.Empty(t, r.PullEvents())
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		r := newTestReturn(ReturnStatusInTransit)
		err := r.Advance(ReturnStatusInTransit, "courier", "", at)
		assert.ErrorIs(t, err, ErrStatusUnchanged)
		assert.Len(t, r.StatusHistory, 1)
	})

	t.Run("backwards refused", func(t *testing.T) {
		r := newTestReturn(ReturnStatusReceived)
		err := r.Advance(ReturnStatusPickedUp, "courier", "", at)
		var te *TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, ReturnStatusReceived, te.From)
		assert.Equal(t, ReturnStatusReceived, r.Status)
		assert.Len(t, r.StatusHistory, 1)
	})
}

func TestReturn_Force(t *testing.T) {
	at := time.Now().UTC()
	r := newTestReturn(ReturnStatusCompleted)

	require.NoError(t, r.Force(ReturnStatusReceived, "admin-1", "fix stuck record", at))
	assert.Equal(t, ReturnStatusReceived, r.Status)
	assert.Equal(t, "fix stuck record", r.StatusHistory[1].Note)

	var ve *ValidationError
	assert.True(t, errors.As(r.Force("teleported", "admin-1", "", at), &ve))
	assert.Equal(t, ReturnStatusReceived, r.Status)
}

func TestReturn_CheckHistory(t *testing.T) {
	r := newTestReturn(ReturnStatusApproved)
	assert.NoError(t, r.CheckHistory())

	r.Status = ReturnStatusPickedUp
	assert.Error(t, r.CheckHistory())

	r.StatusHistory = nil
	assert.Error(t, r.CheckHistory())
}

func TestReturn_AllItemsAcceptable(t *testing.T) {
	r := &Return{}
	assert.False(t, r.AllItemsAcceptable())

	r.Items = []ReturnItem{{Condition: ConditionUnused}, {Condition: ConditionLightlyUsed}}
	assert.True(t, r.AllItemsAcceptable())

	r.Items = append(r.Items, ReturnItem{Condition: ConditionDamaged})
	assert.False(t, r.AllItemsAcceptable())
}

func TestRefundBreakdown(t *testing.T) {
	items := []ReturnItem{
		{Price: decimal.RequireFromString("1200.00"), Quantity: 2},
		{Price: decimal.RequireFromString("300.50"), Quantity: 1},
	}

	got := RefundBreakdown(items, decimal.NewFromInt(100), decimal.NewFromInt(10))
	assert.True(t, decimal.RequireFromString("2700.50").Equal(got.OriginalAmount))
	assert.True(t, decimal.RequireFromString("270.05").Equal(got.RestockingFee))
	assert.True(t, decimal.RequireFromString("2330.45").Equal(got.RefundAmount))

	small := RefundBreakdown([]ReturnItem{{Price: decimal.NewFromInt(50), Quantity: 1}}, decimal.NewFromInt(100), decimal.Zero)
	assert.True(t, small.RefundAmount.IsZero())
}

func TestFormatReturnNumber(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "RET-20240305-000042", FormatReturnNumber(at, 42))
}

func TestAppendScans(t *testing.T) {
	history := []ScanEvent{{Timestamp: "2024-01-10 10:00:00", StatusCode: "6"}}
	incoming := []ScanEvent{
		{Timestamp: "2024-01-10 10:00:00", StatusCode: "18"},
		{Timestamp: "2024-01-11 08:00:00", StatusCode: "18"},
		{Timestamp: "2024-01-11 09:30:00", StatusCode: "6"},
		{Timestamp: ""},
	}

	fwd, added := AppendScansByTimestamp(history, incoming)
	assert.Equal(t, 2, added)
	assert.Len(t, fwd, 3)

	rev, added := AppendScansByTimestampAndCode(history, incoming)
	assert.Equal(t, 3, added)
	assert.Len(t, rev, 4)

	again, added := AppendScansByTimestampAndCode(rev, incoming)
	assert.Zero(t, added)
	assert.Len(t, again, 4)
}

func TestAppendScans_SameTimestampInOneBatch(t *testing.T) {
	incoming := []ScanEvent{
		{Timestamp: "2024-01-11 08:00:00", Status: "In Transit", StatusCode: "6"},
		{Timestamp: "2024-01-11 08:00:00", Status: "Reached Hub", StatusCode: "18"},
	}

	history, added := AppendScansByTimestamp(nil, incoming)
	assert.Equal(t, 2, added)
	assert.Equal(t, incoming, history)

	history, added = AppendScansByTimestamp(history, incoming)
	assert.Zero(t, added)
	assert.Len(t, history, 2)
}

func TestOrder_AdvanceStatus(t *testing.T) {
	at := time.Now().UTC()
	o := &Order{ID: "ord-1", Status: OrderStatusShipped, PaymentMethod: PaymentMethodCOD, PaymentStatus: PaymentStatusPending}

	assert.False(t, o.AdvanceStatus("", "courier", at))
	assert.False(t, o.AdvanceStatus(OrderStatusProcessing, "courier", at))
	assert.True(t, o.AdvanceStatus(OrderStatusDelivered, "courier", at))
	assert.True(t, o.MarkCODPaid(at))
	assert.False(t, o.MarkCODPaid(at))
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, TopicOrderStatusChanged, events[0].Topic)
}
