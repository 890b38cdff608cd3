package domain

import "time"

const (
	TopicReturnStatusChanged  = "returns.status_changed"
	TopicReturnRefundStalled  = "returns.refund_stalled"
	TopicReturnAdminAttention = "returns.admin_attention"
	TopicOrderStatusChanged   = "orders.status_changed"
)

// Event is a change notification written to the outbox in the same
// transaction as the entity that produced it.
type Event struct {
	Topic   string
	Key     string
	Payload any
}

type ReturnStatusChanged struct {
	ReturnID     string       `json:"returnId"`
	ReturnNumber string       `json:"returnNumber"`
	OrderID      string       `json:"orderId"`
	From         ReturnStatus `json:"from"`
	To           ReturnStatus `json:"to"`
	Actor        string       `json:"actor"`
	Note         string       `json:"note,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

type ReturnNotice struct {
	ReturnID     string       `json:"returnId"`
	ReturnNumber string       `json:"returnNumber"`
	OrderID      string       `json:"orderId"`
	Status       ReturnStatus `json:"status"`
	Reason       string       `json:"reason"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

type OrderStatusChanged struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	Source      string      `json:"source"`
	OccurredAt  time.Time   `json:"occurredAt"`
}
