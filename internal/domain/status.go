package domain

// ReturnStatus is the lifecycle state of a return request.
type ReturnStatus string

const (
	ReturnStatusRequested       ReturnStatus = "requested"
	ReturnStatusPendingApproval ReturnStatus = "pending_approval" // legacy records only
	ReturnStatusApproved        ReturnStatus = "approved"
	ReturnStatusRejected        ReturnStatus = "rejected"
	ReturnStatusPickupScheduled ReturnStatus = "pickup_scheduled"
	ReturnStatusPickupFailed    ReturnStatus = "pickup_failed"
	ReturnStatusPickedUp        ReturnStatus = "picked_up"
	ReturnStatusInTransit       ReturnStatus = "in_transit"
	ReturnStatusReceived        ReturnStatus = "received"
	ReturnStatusInspected       ReturnStatus = "inspected"
	ReturnStatusApprovedRefund  ReturnStatus = "approved_refund"
	ReturnStatusRejectedRefund  ReturnStatus = "rejected_refund"
	ReturnStatusRefundProcessed ReturnStatus = "refund_processed"
	ReturnStatusCompleted       ReturnStatus = "completed"
	ReturnStatusCancelled       ReturnStatus = "cancelled"
)

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusRequested:       {ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCancelled},
	ReturnStatusPendingApproval: {ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCancelled},
	ReturnStatusApproved:        {ReturnStatusPickupScheduled, ReturnStatusCancelled},
	ReturnStatusPickupScheduled: {ReturnStatusPickedUp, ReturnStatusPickupFailed, ReturnStatusCancelled},
	ReturnStatusPickupFailed:    {ReturnStatusPickupScheduled, ReturnStatusCancelled},
	ReturnStatusPickedUp:        {ReturnStatusInTransit, ReturnStatusCancelled},
	ReturnStatusInTransit:       {ReturnStatusReceived, ReturnStatusCancelled},
	ReturnStatusReceived:        {ReturnStatusInspected, ReturnStatusCancelled},
	ReturnStatusInspected:       {ReturnStatusApprovedRefund, ReturnStatusRejectedRefund, ReturnStatusCancelled},
	ReturnStatusApprovedRefund:  {ReturnStatusRefundProcessed, ReturnStatusCancelled},
	ReturnStatusRefundProcessed: {ReturnStatusCompleted},
	ReturnStatusRejectedRefund:  {ReturnStatusCompleted, ReturnStatusCancelled},
	ReturnStatusRejected:        {ReturnStatusCompleted},
	ReturnStatusCompleted:       nil,
	ReturnStatusCancelled:       nil,
}

// IsValid reports whether s is a known return status.
func (s ReturnStatus) IsValid() bool {
	_, ok := returnTransitions[s]
	return ok
}

// IsTerminal reports whether s closes the return. Terminal returns do not
// block a new return against the same order.
func (s ReturnStatus) IsTerminal() bool {
	switch s {
	case ReturnStatusCompleted, ReturnStatusCancelled, ReturnStatusRejected:
		return true
	}
	return false
}

func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	for _, next := range returnTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CanReach reports whether target lies strictly ahead of s in the lifecycle
// graph. Courier callbacks may skip intermediate states but never move a
// return backwards.
func (s ReturnStatus) CanReach(target ReturnStatus) bool {
	if s == target || !target.IsValid() {
		return false
	}
	seen := map[ReturnStatus]bool{s: true}
	queue := []ReturnStatus{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range returnTransitions[cur] {
			if next == target {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
	OrderStatusRefunded       OrderStatus = "refunded"
)

var orderProgress = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusProcessing:     2,
	OrderStatusShipped:        3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

// IsClosed reports whether the order left the fulfilment line for good.
func (s OrderStatus) IsClosed() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusReturned, OrderStatusRefunded:
		return true
	}
	return false
}

// CanAdvanceTo guards courier-driven order updates: closed orders stay
// closed and fulfilment never moves backwards.
func (s OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	if s == target || s.IsClosed() {
		return false
	}
	from, okFrom := orderProgress[s]
	to, okTo := orderProgress[target]
	if okFrom && okTo {
		return to > from
	}
	return okTo || target.IsClosed()
}

// ShippingStatus mirrors the courier's view of a forward shipment.
type ShippingStatus string

const (
	ShippingStatusPending         ShippingStatus = "pending"
	ShippingStatusAWBAssigned     ShippingStatus = "awb_assigned"
	ShippingStatusLabelGenerated  ShippingStatus = "label_generated"
	ShippingStatusPickupScheduled ShippingStatus = "pickup_scheduled"
	ShippingStatusManifested      ShippingStatus = "manifested"
	ShippingStatusOutForPickup    ShippingStatus = "out_for_pickup"
	ShippingStatusPickupError     ShippingStatus = "pickup_error"
	ShippingStatusPickedUp        ShippingStatus = "picked_up"
	ShippingStatusShipped         ShippingStatus = "shipped"
	ShippingStatusInTransit       ShippingStatus = "in_transit"
	ShippingStatusOutForDelivery  ShippingStatus = "out_for_delivery"
	ShippingStatusDelivered       ShippingStatus = "delivered"
	ShippingStatusUndelivered     ShippingStatus = "undelivered"
	ShippingStatusDelayed         ShippingStatus = "delayed"
	ShippingStatusRTOInitiated    ShippingStatus = "rto_initiated"
	ShippingStatusRTODelivered    ShippingStatus = "rto_delivered"
	ShippingStatusLost            ShippingStatus = "lost"
	ShippingStatusCancelled       ShippingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)
