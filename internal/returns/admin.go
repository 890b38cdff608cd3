package returns

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
)

type rule struct {
	from []domain.ReturnStatus
	to   domain.ReturnStatus
}

// actionRules lists the statuses each admin action may start from. inspect
// and cancel have no single target and are resolved in apply.
var actionRules = map[Action]rule{
	ActionApprove:        {from: []domain.ReturnStatus{domain.ReturnStatusRequested}, to: domain.ReturnStatusApproved},
	ActionReject:         {from: []domain.ReturnStatus{domain.ReturnStatusRequested, domain.ReturnStatusPendingApproval}, to: domain.ReturnStatusRejected},
	ActionSchedulePickup: {from: []domain.ReturnStatus{domain.ReturnStatusApproved}, to: domain.ReturnStatusPickupScheduled},
	ActionMarkPicked:     {from: []domain.ReturnStatus{domain.ReturnStatusPickupScheduled}, to: domain.ReturnStatusPickedUp},
	ActionMarkInTransit:  {from: []domain.ReturnStatus{domain.ReturnStatusPickedUp}, to: domain.ReturnStatusInTransit},
	ActionMarkReceived:   {from: []domain.ReturnStatus{domain.ReturnStatusInTransit}, to: domain.ReturnStatusReceived},
	ActionInspect:        {from: []domain.ReturnStatus{domain.ReturnStatusReceived, domain.ReturnStatusInspected}},
	ActionProcessRefund:  {from: []domain.ReturnStatus{domain.ReturnStatusApprovedRefund}, to: domain.ReturnStatusRefundProcessed},
	ActionComplete:       {from: []domain.ReturnStatus{domain.ReturnStatusRefundProcessed, domain.ReturnStatusRejectedRefund}, to: domain.ReturnStatusCompleted},
	ActionCancel:         {from: cancellable(), to: domain.ReturnStatusCancelled},
}

func cancellable() []domain.ReturnStatus {
	var out []domain.ReturnStatus
	for _, s := range []domain.ReturnStatus{
		domain.ReturnStatusRequested,
		domain.ReturnStatusPendingApproval,
		domain.ReturnStatusApproved,
		domain.ReturnStatusPickupScheduled,
		domain.ReturnStatusPickupFailed,
		domain.ReturnStatusPickedUp,
		domain.ReturnStatusInTransit,
		domain.ReturnStatusReceived,
		domain.ReturnStatusInspected,
		domain.ReturnStatusApprovedRefund,
		domain.ReturnStatusRejectedRefund,
	} {
		if s.CanTransitionTo(domain.ReturnStatusCancelled) {
			out = append(out, s)
		}
	}
	return out
}

func (r rule) allows(s domain.ReturnStatus) bool {
	for _, from := range r.from {
		if from == s {
			return true
		}
	}
	return false
}

// ApplyAction runs an admin action against a return. Actions other than
// update_status only run from the statuses listed in actionRules and leave
// the return untouched otherwise.
func (e *Engine) ApplyAction(ctx context.Context, returnID string, req AdminRequest, actor string) (*domain.Return, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Action == ActionUpdateStatus {
		return e.overrideStatus(ctx, returnID, req, actor)
	}

	rl, ok := actionRules[req.Action]
	if !ok {
		return nil, &domain.ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", req.Action)}
	}
	switch req.Action {
	case ActionInspect:
		if req.InspectionData == nil {
			return nil, &domain.ValidationError{Field: "inspectionData", Message: "is required for inspect"}
		}
	case ActionSchedulePickup:
		if req.PickupSchedule == nil || req.PickupSchedule.ScheduledDate.IsZero() {
			return nil, &domain.ValidationError{Field: "pickupSchedule.scheduledDate", Message: "is required for schedule_pickup"}
		}
	}

	var before int
	ret, err := e.store.UpdateReturn(ctx, returnID, func(r *domain.Return) error {
		before = len(r.StatusHistory)
		if !rl.allows(r.Status) {
			return &domain.PreconditionError{Action: string(req.Action), Expected: rl.from, Actual: r.Status}
		}
		return e.apply(ctx, r, req, rl, actor)
	})
	if err != nil {
		e.logger.Info("admin action refused",
			zap.String("return_id", returnID),
			zap.String("action", string(req.Action)),
			zap.String("actor", actor),
			zap.Error(err))
		return nil, err
	}

	countTransitions(ret, before, SourceAdmin)
	e.logger.Info("admin action applied",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("action", string(req.Action)),
		zap.String("status", string(ret.Status)),
		zap.String("actor", actor))
	return ret, nil
}

func (e *Engine) apply(ctx context.Context, r *domain.Return, req AdminRequest, rl rule, actor string) error {
	now := e.now()

	switch req.Action {
	case ActionSchedulePickup:
		ps := req.PickupSchedule
		date := ps.ScheduledDate.UTC()
		r.Pickup.ScheduledDate = &date
		r.Pickup.TimeSlot = ps.TimeSlot
		r.Pickup.PickupStatus = "scheduled"
		if ps.AWBCode != "" {
			r.Pickup.AWBCode = ps.AWBCode
		}
		if ps.CourierName != "" {
			r.Pickup.CourierName = ps.CourierName
		}
		if ps.CourierOrderID != "" {
			r.Pickup.CourierOrderID = ps.CourierOrderID
		}
		r.Transition(rl.to, actor, req.Note, now)

	case ActionMarkPicked:
		r.Pickup.ActualPickupDate = &now
		r.Pickup.PickupStatus = "picked_up"
		r.Transition(rl.to, actor, req.Note, now)

	case ActionInspect:
		in := req.InspectionData
		r.Inspection = &domain.Inspection{
			Condition:   in.Condition,
			Approved:    in.Approved,
			Notes:       in.Notes,
			Photos:      in.Photos,
			InspectedBy: actor,
			InspectedAt: now,
		}
		if r.Status == domain.ReturnStatusReceived {
			r.Transition(domain.ReturnStatusInspected, actor, in.Notes, now)
		}
		if in.Approved {
			r.Transition(domain.ReturnStatusApprovedRefund, actor, req.Note, now)
		} else {
			r.Transition(domain.ReturnStatusRejectedRefund, actor, req.Note, now)
		}

	case ActionProcessRefund:
		if err := e.processRefund(ctx, r, req.RefundDetails, now); err != nil {
			return err
		}
		r.Transition(rl.to, actor, req.Note, now)

	default:
		r.Transition(rl.to, actor, req.Note, now)
	}

	r.AddAdminNote(req.Note, actor, now)
	return nil
}

// processRefund pays out through the processor unless the admin supplies
// the transaction id of a refund made elsewhere.
func (e *Engine) processRefund(ctx context.Context, r *domain.Return, in *RefundInput, now time.Time) error {
	amount := r.RefundDetails.RefundAmount
	method := r.RefundDetails.RefundMethod
	if in != nil {
		if in.RefundAmount != nil {
			amount = *in.RefundAmount
		}
		if in.RefundMethod != "" {
			method = in.RefundMethod
		}
		if in.RefundTransactionID != "" {
			if amount.IsNegative() || amount.GreaterThan(r.RefundDetails.OriginalAmount) {
				return &domain.ValidationError{Field: "refundDetails.refundAmount", Message: "must be between 0 and the original amount"}
			}
			recordRefund(r, amount, method, in.RefundTransactionID, now)
			return nil
		}
	}
	if method == "" {
		method = "original_payment"
	}
	return e.refund(ctx, r, amount, method, "admin refund for "+r.ReturnNumber, now)
}

// overrideStatus is the update_status trapdoor. It ignores the status
// graph and is logged at WARN so the override stands out.
func (e *Engine) overrideStatus(ctx context.Context, returnID string, req AdminRequest, actor string) (*domain.Return, error) {
	if req.Status == "" {
		return nil, &domain.ValidationError{Field: "status", Message: "is required for update_status"}
	}

	var (
		before int
		from   domain.ReturnStatus
	)
	ret, err := e.store.UpdateReturn(ctx, returnID, func(r *domain.Return) error {
		before = len(r.StatusHistory)
		from = r.Status
		return r.Force(req.Status, actor, req.Note, e.now())
	})
	if err != nil {
		return nil, err
	}

	countTransitions(ret, before, SourceOverride)
	e.logger.Warn("return status overridden outside the lifecycle",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("from", string(from)),
		zap.String("to", string(ret.Status)),
		zap.Bool("reachable", from.CanReach(ret.Status)),
		zap.String("actor", actor),
		zap.String("note", req.Note))
	return ret, nil
}
