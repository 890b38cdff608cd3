package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

type Shipping struct {
	AWBCode             string         `json:"awbCode,omitempty"`
	ShipmentID          string         `json:"shipmentId,omitempty"`
	CourierName         string         `json:"courierName,omitempty"`
	Status              ShippingStatus `json:"status,omitempty"`
	TrackingHistory     []ScanEvent    `json:"trackingHistory"`
	CurrentLocation     string         `json:"currentLocation,omitempty"`
	EstimatedDelivery   *time.Time     `json:"estimatedDelivery,omitempty"`
	AWBAssignedAt       *time.Time     `json:"awbAssignedAt,omitempty"`
	PickedUpAt          *time.Time     `json:"pickedUpAt,omitempty"`
	DeliveredAt         *time.Time     `json:"deliveredAt,omitempty"`
	PickupScheduledDate *time.Time     `json:"pickupScheduledDate,omitempty"`
	ProofOfDeliveryURL  string         `json:"proofOfDeliveryUrl,omitempty"`
	LastUpdateAt        *time.Time     `json:"lastUpdateAt,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ShippingAddress Address         `json:"shippingAddress"`
	Shipping        Shipping        `json:"shipping"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	events []Event
}

// AdvanceStatus applies a courier-driven status change if the order status
// guard allows it and reports whether anything changed.
func (o *Order) AdvanceStatus(to OrderStatus, source string, at time.Time) bool {
	if to == "" || !o.Status.CanAdvanceTo(to) {
		return false
	}
	o.setStatus(to, source, at)
	return true
}

// MarkRefunded closes the order after a refund covering its full total.
func (o *Order) MarkRefunded(source string, at time.Time) {
	o.PaymentStatus = PaymentStatusRefunded
	if o.Status != OrderStatusRefunded {
		o.setStatus(OrderStatusRefunded, source, at)
	}
}

// MarkCODPaid settles a cash-on-delivery order once the parcel is delivered.
func (o *Order) MarkCODPaid(at time.Time) bool {
	if o.PaymentMethod != PaymentMethodCOD || o.PaymentStatus == PaymentStatusPaid {
		return false
	}
	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = at
	return true
}

func (o *Order) setStatus(to OrderStatus, source string, at time.Time) {
	from := o.Status
	o.Status = to
	o.UpdatedAt = at
	o.events = append(o.events, Event{
		Topic: TopicOrderStatusChanged,
		Key:   o.ID,
		Payload: OrderStatusChanged{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			From:        from,
			To:          to,
			Source:      source,
			OccurredAt:  at,
		},
	})
}

// Item returns the order line for a product.
func (o *Order) Item(productID string) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return OrderItem{}, false
}

func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}
