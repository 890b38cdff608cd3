package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ItemCondition string

const (
	ConditionUnused       ItemCondition = "unused"
	ConditionLightlyUsed  ItemCondition = "lightly_used"
	ConditionUsed         ItemCondition = "used"
	ConditionDamaged      ItemCondition = "damaged"
	ConditionDefective    ItemCondition = "defective"
	ConditionMissingParts ItemCondition = "missing_parts"
)

// IsAcceptable reports whether an item in this condition qualifies for an
// automatic refund.
func (c ItemCondition) IsAcceptable() bool {
	return c == ConditionUnused || c == ConditionLightlyUsed
}

type Source string

const (
	SourceWebsite     Source = "website"
	SourceAdmin       Source = "admin"
	SourceAdminManual Source = "admin_manual"
)

type ReturnItem struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	Quantity     int             `json:"quantity"`
	ReturnReason string          `json:"returnReason,omitempty"`
	Condition    ItemCondition   `json:"condition"`
}

type StatusHistoryEntry struct {
	Status    ReturnStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Note      string       `json:"note,omitempty"`
	UpdatedBy string       `json:"updatedBy"`
}

type Address struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ScanEvent is one courier tracking scan. Timestamp keeps the courier's raw
// value because replays are detected by exact match on it.
type ScanEvent struct {
	Timestamp  string    `json:"timestamp"`
	Status     string    `json:"status,omitempty"`
	StatusCode string    `json:"statusCode,omitempty"`
	Activity   string    `json:"activity,omitempty"`
	Location   string    `json:"location,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Pickup struct {
	Address          Address     `json:"address"`
	PickupStatus     string      `json:"pickupStatus,omitempty"`
	ScheduledDate    *time.Time  `json:"scheduledDate,omitempty"`
	TimeSlot         string      `json:"timeSlot,omitempty"`
	ActualPickupDate *time.Time  `json:"actualPickupDate,omitempty"`
	AWBCode          string      `json:"awbCode,omitempty"`
	CourierName      string      `json:"courierName,omitempty"`
	CourierOrderID   string      `json:"courierOrderId,omitempty"`
	TrackingHistory  []ScanEvent `json:"trackingHistory"`
	CurrentLocation  string      `json:"currentLocation,omitempty"`
	LastUpdateAt     *time.Time  `json:"lastUpdateAt,omitempty"`
}

type Inspection struct {
	Condition   ItemCondition `json:"condition"`
	Approved    bool          `json:"approved"`
	Notes       string        `json:"notes,omitempty"`
	Photos      []string      `json:"photos,omitempty"`
	InspectedBy string        `json:"inspectedBy"`
	InspectedAt time.Time     `json:"inspectedAt"`
}

type RefundDetails struct {
	OriginalAmount      decimal.Decimal `json:"originalAmount"`
	ReturnShippingCost  decimal.Decimal `json:"returnShippingCost"`
	RestockingFee       decimal.Decimal `json:"restockingFee"`
	RefundAmount        decimal.Decimal `json:"refundAmount"`
	RefundMethod        string          `json:"refundMethod,omitempty"`
	RefundProcessedAt   *time.Time      `json:"refundProcessedAt,omitempty"`
	RefundTransactionID string          `json:"refundTransactionId,omitempty"`
}

type Eligibility struct {
	IsEligible        bool      `json:"isEligible"`
	EligibilityReason string    `json:"eligibilityReason"`
	CheckedAt         time.Time `json:"checkedAt"`
}

type AdminNote struct {
	Note      string    `json:"note"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Return struct {
	ID            string               `json:"id"`
	ReturnNumber  string               `json:"returnNumber"`
	OrderID       string               `json:"orderId"`
	OrderNumber   string               `json:"orderNumber,omitempty"`
	UserID        string               `json:"userId"`
	Items         []ReturnItem         `json:"items"`
	Reason        string               `json:"reason,omitempty"`
	Status        ReturnStatus         `json:"status"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
	Pickup        Pickup               `json:"pickup"`
	Inspection    *Inspection          `json:"inspection,omitempty"`
	RefundDetails RefundDetails        `json:"refundDetails"`
	Eligibility   Eligibility          `json:"eligibility"`
	AdminNotes    []AdminNote          `json:"adminNotes"`
	Source        Source               `json:"source"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`

	events []Event
}

// Transition moves the return to the given status unconditionally and
// appends the matching history entry.
func (r *Return) Transition(to ReturnStatus, actor, note string, at time.Time) {
	from := r.Status
	r.Status = to
	r.StatusHistory = append(r.StatusHistory, StatusHistoryEntry{
		Status:    to,
		Timestamp: at,
		Note:      note,
		UpdatedBy: actor,
	})
	r.UpdatedAt = at
	r.addEvent(Event{
		Topic: TopicReturnStatusChanged,
		Key:   r.ID,
		Payload: ReturnStatusChanged{
			ReturnID:     r.ID,
			ReturnNumber: r.ReturnNumber,
			OrderID:      r.OrderID,
			From:         from,
			To:           to,
			Actor:        actor,
			Note:         note,
			OccurredAt:   at,
		},
	})
}

// Advance is the guarded transition used by automation. It refuses to
// repeat the current status or to move to a status that is not ahead of it.
func (r *Return) Advance(to ReturnStatus, actor, note string, at time.Time) error {
	if r.Status == to {
		return ErrStatusUnchanged
	}
	if !r.Status.CanReach(to) {
		return &TransitionError{From: r.Status, To: to}
	}
	r.Transition(to, actor, note, at)
	return nil
}

// Force sets any known status regardless of the current one.
func (r *Return) Force(to ReturnStatus, actor, note string, at time.Time) error {
	if !to.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown return status %q", to)}
	}
	r.Transition(to, actor, note, at)
	return nil
}

// CheckHistory verifies that the last history entry matches the current
// status.
func (r *Return) CheckHistory() error {
	if len(r.StatusHistory) == 0 {
		return fmt.Errorf("return %s has empty status history", r.ID)
	}
	last := r.StatusHistory[len(r.StatusHistory)-1]
	if last.Status != r.Status {
		return fmt.Errorf("return %s: last history entry %s does not match status %s", r.ID, last.Status, r.Status)
	}
	return nil
}

func (r *Return) AddAdminNote(note, author string, at time.Time) {
	if note == "" {
		return
	}
	r.AdminNotes = append(r.AdminNotes, AdminNote{Note: note, Author: author, CreatedAt: at})
}

// AllItemsAcceptable reports whether every item qualifies for an automatic
// refund. A return without items never does.
func (r *Return) AllItemsAcceptable() bool {
	if len(r.Items) == 0 {
		return false
	}
	for _, item := range r.Items {
		if !item.Condition.IsAcceptable() {
			return false
		}
	}
	return true
}

// Notify records a non-transition event about the return, such as a stalled
// refund or a courier exception.
func (r *Return) Notify(topic, reason string, at time.Time) {
	r.addEvent(Event{
		Topic: topic,
		Key:   r.ID,
		Payload: ReturnNotice{
			ReturnID:     r.ID,
			ReturnNumber: r.ReturnNumber,
			OrderID:      r.OrderID,
			Status:       r.Status,
			Reason:       reason,
			OccurredAt:   at,
		},
	})
}

func (r *Return) addEvent(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns and clears the events recorded since the last call.
func (r *Return) PullEvents() []Event {
	events := r.events
	r.events = nil
	return events
}

// RefundBreakdown computes the amounts owed for the given items.
func RefundBreakdown(items []ReturnItem, shippingCost decimal.Decimal, restockingFeePercent decimal.Decimal) RefundDetails {
	original := decimal.Zero
	for _, item := range items {
		original = original.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	fee := original.Mul(restockingFeePercent).Div(decimal.NewFromInt(100)).Round(2)
	refund := original.Sub(shippingCost).Sub(fee)
	if refund.IsNegative() {
		refund = decimal.Zero
	}
	return RefundDetails{
		OriginalAmount:     original,
		ReturnShippingCost: shippingCost,
		RestockingFee:      fee,
		RefundAmount:       refund,
	}
}

// FormatReturnNumber renders the human readable return number.
func FormatReturnNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("RET-%s-%06d", at.UTC().Format("20060102"), seq)
}

// ReturnedQuantities sums item quantities per product across returns whose
// goods are still on their way back or already received.
func ReturnedQuantities(returns []*Return) map[string]int {
	qty := make(map[string]int)
	for _, r := range returns {
		if r.Status == ReturnStatusCancelled || r.Status == ReturnStatusRejected {
			continue
		}
		for _, item := range r.Items {
			qty[item.ProductID] += item.Quantity
		}
	}
	return qty
}

// RefundedTotal sums the refunds already paid out on an order's returns.
func RefundedTotal(returns []*Return) decimal.Decimal {
	total := decimal.Zero
	for _, r := range returns {
		if r.RefundDetails.RefundProcessedAt == nil {
			continue
		}
		total = total.Add(r.RefundDetails.RefundAmount)
	}
	return total
}

// CheckRefundTotal rejects an amount that would take the refunds on the
// order past its total.
func CheckRefundTotal(order *Order, earlier []*Return, amount decimal.Decimal) error {
	if order.PaymentStatus == PaymentStatusRefunded {
		return &ValidationError{Field: "amount", Message: fmt.Sprintf("order %s is already fully refunded", order.OrderNumber)}
	}
	prior := RefundedTotal(earlier)
	if prior.Add(amount).GreaterThan(order.TotalAmount) {
		return &ValidationError{
			Field: "amount",
			Message: fmt.Sprintf("refund amount %s exceeds remaining %s of order total %s",
				amount.StringFixed(2), order.TotalAmount.Sub(prior).StringFixed(2), order.TotalAmount.StringFixed(2)),
		}
	}
	return nil
}

// CheckReturnQuantities validates items against the order lines, counting
// what earlier returns already claimed.
func CheckReturnQuantities(order *Order, earlier []*Return, items []ReturnItem) error {
	claimed := ReturnedQuantities(earlier)
	for _, item := range items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items", Message: fmt.Sprintf("quantity for product %s must be positive", item.ProductID)}
		}
		line, ok := order.Item(item.ProductID)
		if !ok {
			return &ValidationError{Field: "items", Message: fmt.Sprintf("product %s is not part of order %s", item.ProductID, order.OrderNumber)}
		}
		claimed[item.ProductID] += item.Quantity
		if claimed[item.ProductID] > line.Quantity {
			return &ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("cannot return %d of product %s, only %d ordered", claimed[item.ProductID], item.ProductID, line.Quantity),
			}
		}
	}
	return nil
}
