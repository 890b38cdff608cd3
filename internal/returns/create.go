package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/metrics"
	"gitlab.com/gemvault/storefront/internal/resolve"
)

// RequestReturn creates a return raised by the customer who owns the order.
func (e *Engine) RequestReturn(ctx context.Context, req CustomerReturnRequest, userID string) (*domain.Return, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	order, err := e.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, &domain.NotFoundError{Entity: "order", Ref: req.OrderID}
	}

	now := e.now()
	eligibility := e.checkEligibility(order, now)
	if !eligibility.IsEligible {
		return nil, &domain.ValidationError{Field: "orderId", Message: eligibility.EligibilityReason}
	}

	ret, err := e.newReturn(order, req.Items, req.Reason, req.PickupAddress, now)
	if err != nil {
		return nil, err
	}
	ret.UserID = userID
	ret.Source = domain.SourceWebsite
	ret.Eligibility = eligibility
	ret.Transition(domain.ReturnStatusRequested, userID, "Return requested by customer", now)

	if err := e.store.CreateReturn(ctx, ret, nil); err != nil {
		return nil, err
	}
	metrics.ReturnsCreatedTotal.WithLabelValues(string(ret.Source)).Inc()
	countTransitions(ret, 0, SourceCustomer)
	e.logger.Info("return requested",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("order_id", order.ID),
		zap.String("user_id", userID))
	return ret, nil
}

// CreateManualReturn creates a return on behalf of a customer. Eligibility
// is recorded but not enforced.
func (e *Engine) CreateManualReturn(ctx context.Context, req ManualReturnRequest, actor string) (*domain.Return, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	order, err := e.resolveOrder(ctx, req.OrderRef)
	if err != nil {
		return nil, err
	}
	if req.CustomerRef != "" {
		customer, err := e.resolveCustomer(ctx, req.CustomerRef)
		if err != nil {
			return nil, err
		}
		if customer.ID != order.UserID {
			return nil, &domain.ValidationError{
				Field:   "customerRef",
				Message: fmt.Sprintf("customer %s did not place order %s", customer.Email, order.OrderNumber),
			}
		}
	}

	now := e.now()
	ret, err := e.newReturn(order, req.Items, req.Reason, req.PickupAddress, now)
	if err != nil {
		return nil, err
	}
	ret.UserID = order.UserID
	ret.Source = domain.SourceAdminManual
	ret.Eligibility = e.checkEligibility(order, now)
	ret.Transition(domain.ReturnStatusRequested, actor, "Return created by admin", now)
	if req.Status == domain.ReturnStatusApproved {
		ret.Transition(domain.ReturnStatusApproved, actor, "Approved on creation", now)
	}
	ret.AddAdminNote(req.Note, actor, now)

	if err := e.store.CreateReturn(ctx, ret, nil); err != nil {
		return nil, err
	}
	metrics.ReturnsCreatedTotal.WithLabelValues(string(ret.Source)).Inc()
	countTransitions(ret, 0, SourceAdmin)
	e.logger.Info("manual return created",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("order_id", order.ID),
		zap.Bool("eligible", ret.Eligibility.IsEligible),
		zap.String("actor", actor))
	return ret, nil
}

// ManualRefund refunds an order without a physical return. The refund is
// recorded as a completed return with the whole lifecycle in its history.
// An amount covering the order total marks the order refunded.
func (e *Engine) ManualRefund(ctx context.Context, req ManualRefundRequest, actor string) (*domain.Return, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	order, err := e.resolveOrder(ctx, req.OrderRef)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, &domain.ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	prior, err := e.store.ListReturnsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckRefundTotal(order, prior, req.Amount); err != nil {
		return nil, err
	}
	refunded := domain.RefundedTotal(prior).Add(req.Amount)

	now := e.now()
	method := req.RefundMethod
	if method == "" {
		method = "original_payment"
	}
	ret := &domain.Return{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Items:       []domain.ReturnItem{},
		Reason:      req.Reason,
		Source:      domain.SourceAdmin,
		Pickup:      domain.Pickup{Address: order.ShippingAddress, TrackingHistory: []domain.ScanEvent{}},
		RefundDetails: domain.RefundDetails{
			OriginalAmount: order.TotalAmount,
		},
		Eligibility: domain.Eligibility{
			IsEligible:        true,
			EligibilityReason: "Manual refund granted by admin",
			CheckedAt:         now,
		},
		AdminNotes: []domain.AdminNote{},
	}

	if req.TransactionID != "" {
		recordRefund(ret, req.Amount, method, req.TransactionID, now)
	} else if err := e.refund(ctx, ret, req.Amount, method, req.Reason, now); err != nil {
		return nil, err
	}

	for _, s := range []domain.ReturnStatus{
		domain.ReturnStatusRequested,
		domain.ReturnStatusApproved,
		domain.ReturnStatusApprovedRefund,
		domain.ReturnStatusRefundProcessed,
		domain.ReturnStatusCompleted,
	} {
		ret.Transition(s, actor, "Manual refund", now)
	}
	ret.AddAdminNote(req.Note, actor, now)

	fullRefund := !refunded.LessThan(order.TotalAmount)
	err = e.store.CreateReturn(ctx, ret, func(o *domain.Order) error {
		if fullRefund {
			o.MarkRefunded(SourceAdmin, now)
		} else {
			o.PaymentStatus = domain.PaymentStatusPartiallyRefunded
		}
		return nil
	})
	if err != nil {
		e.logger.Error("manual refund paid but not recorded",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", ret.RefundDetails.RefundTransactionID),
			zap.String("amount", req.Amount.StringFixed(2)),
			zap.Error(err))
		return nil, err
	}

	metrics.ReturnsCreatedTotal.WithLabelValues(string(ret.Source)).Inc()
	countTransitions(ret, 0, SourceAdmin)
	e.logger.Info("manual refund recorded",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("order_id", order.ID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.Bool("full_refund", fullRefund),
		zap.String("actor", actor))
	return ret, nil
}

// CancelReturn cancels a customer's own return while it is still open.
func (e *Engine) CancelReturn(ctx context.Context, returnID, userID, note string) (*domain.Return, error) {
	var before int
	ret, err := e.store.UpdateReturn(ctx, returnID, func(r *domain.Return) error {
		before = len(r.StatusHistory)
		if r.UserID != userID {
			return &domain.NotFoundError{Entity: "return", Ref: returnID}
		}
		if !r.Status.CanTransitionTo(domain.ReturnStatusCancelled) {
			return &domain.PreconditionError{Action: string(ActionCancel), Expected: cancellable(), Actual: r.Status}
		}
		if note == "" {
			note = "Cancelled by customer"
		}
		r.Transition(domain.ReturnStatusCancelled, userID, note, e.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	countTransitions(ret, before, SourceCustomer)
	e.logger.Info("return cancelled by customer",
		zap.String("return_id", ret.ID),
		zap.String("user_id", userID))
	return ret, nil
}

// newReturn builds an unsaved return with items priced from the order.
// Quantities are checked against earlier returns when it is stored.
func (e *Engine) newReturn(order *domain.Order, inputs []ItemInput, reason string, address *domain.Address, now time.Time) (*domain.Return, error) {
	items := make([]domain.ReturnItem, 0, len(inputs))
	for _, in := range inputs {
		line, ok := order.Item(in.ProductID)
		if !ok {
			return nil, &domain.ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("product %s is not part of order %s", in.ProductID, order.OrderNumber),
			}
		}
		items = append(items, domain.ReturnItem{
			ProductID:    line.ProductID,
			Name:         line.Name,
			Price:        line.Price,
			Image:        line.Image,
			Quantity:     in.Quantity,
			ReturnReason: in.ReturnReason,
			Condition:    in.Condition,
		})
	}

	pickupAddress := order.ShippingAddress
	if address != nil {
		pickupAddress = *address
	}

	return &domain.Return{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Items:         items,
		Reason:        reason,
		Pickup:        domain.Pickup{Address: pickupAddress, PickupStatus: "pending", TrackingHistory: []domain.ScanEvent{}},
		RefundDetails: domain.RefundBreakdown(items, e.policy.ShippingCost, e.policy.RestockingFeePercent),
		AdminNotes:    []domain.AdminNote{},
		CreatedAt:     now,
	}, nil
}

// checkEligibility requires a delivered order inside the return window,
// counted from the delivery date.
func (e *Engine) checkEligibility(order *domain.Order, now time.Time) domain.Eligibility {
	el := domain.Eligibility{CheckedAt: now}
	if order.Status != domain.OrderStatusDelivered {
		el.EligibilityReason = fmt.Sprintf("Order is %s, only delivered orders can be returned", order.Status)
		return el
	}
	deliveredAt := order.UpdatedAt
	if order.Shipping.DeliveredAt != nil {
		deliveredAt = *order.Shipping.DeliveredAt
	}
	deadline := deliveredAt.AddDate(0, 0, e.policy.WindowDays)
	if now.After(deadline) {
		el.EligibilityReason = fmt.Sprintf("Return window of %d days closed on %s", e.policy.WindowDays, deadline.Format("2006-01-02"))
		return el
	}
	el.IsEligible = true
	el.EligibilityReason = fmt.Sprintf("Within %d day return window", e.policy.WindowDays)
	return el
}

func (e *Engine) resolveOrder(ctx context.Context, ref string) (*domain.Order, error) {
	res, err := resolve.Order(ctx, e.store, ref)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case resolve.Found:
		return res.Match, nil
	case resolve.Ambiguous:
		candidates := make([]string, len(res.Candidates))
		for i, o := range res.Candidates {
			candidates[i] = o.OrderNumber
		}
		return nil, &domain.AmbiguousError{Entity: "order", Ref: ref, Candidates: candidates}
	}
	return nil, &domain.NotFoundError{Entity: "order", Ref: ref}
}

func (e *Engine) resolveCustomer(ctx context.Context, ref string) (*domain.User, error) {
	res, err := resolve.Customer(ctx, e.store, ref)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case resolve.Found:
		return res.Match, nil
	case resolve.Ambiguous:
		candidates := make([]string, len(res.Candidates))
		for i, u := range res.Candidates {
			candidates[i] = fmt.Sprintf("%s <%s>", u.Name, u.Email)
		}
		return nil, &domain.AmbiguousError{Entity: "customer", Ref: ref, Candidates: candidates}
	}
	return nil, &domain.NotFoundError{Entity: "customer", Ref: ref}
}
