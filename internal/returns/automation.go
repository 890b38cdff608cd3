package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/storage"
)

// AutoInspect runs the automatic chain for a return sitting at received.
// Returns whose items are all in acceptable condition are inspected,
// approved, refunded and completed. Anything else halts at inspected for
// manual review.
//
// The chain commits in two steps. The second step re-checks the status
// under the lock, so a redelivered callback resumes a chain that stopped
// at approved_refund without paying twice. A failed refund leaves the
// return at approved_refund with an admin note and a stalled-refund event.
func (e *Engine) AutoInspect(ctx context.Context, returnID string) (*domain.Return, error) {
	logger := e.logger.With(zap.String("return_id", returnID))

	var before int
	ret, err := e.store.UpdateReturn(ctx, returnID, func(r *domain.Return) error {
		before = len(r.StatusHistory)
		if r.Status != domain.ReturnStatusReceived {
			return storage.ErrUnchanged
		}
		now := e.now()
		acceptable := r.AllItemsAcceptable()
		r.Inspection = &domain.Inspection{
			Condition:   overallCondition(r.Items),
			Approved:    acceptable,
			Notes:       inspectionNote(r.Items, acceptable),
			InspectedBy: ActorSystem,
			InspectedAt: now,
		}
		if err := r.Advance(domain.ReturnStatusInspected, ActorSystem, "Automatic inspection on receipt", now); err != nil {
			return err
		}
		if !acceptable {
			r.AddAdminNote(r.Inspection.Notes, ActorSystem, now)
			r.Notify(domain.TopicReturnAdminAttention, "manual inspection required", now)
			return nil
		}
		return r.Advance(domain.ReturnStatusApprovedRefund, ActorSystem, "Items in acceptable condition", now)
	})
	switch {
	case errors.Is(err, storage.ErrUnchanged):
		if ret == nil || ret.Status != domain.ReturnStatusApprovedRefund {
			return ret, nil
		}
	case err != nil:
		return nil, err
	default:
		countTransitions(ret, before, SourceAuto)
		logger.Info("return inspected automatically",
			zap.String("return_number", ret.ReturnNumber),
			zap.String("status", string(ret.Status)))
	}

	if ret.Status != domain.ReturnStatusApprovedRefund || ret.RefundDetails.RefundTransactionID != "" {
		return ret, nil
	}
	return e.autoRefund(ctx, ret.ID, logger)
}

func (e *Engine) autoRefund(ctx context.Context, returnID string, logger *zap.Logger) (*domain.Return, error) {
	var (
		before    int
		refundErr error
	)
	ret, err := e.store.UpdateReturn(ctx, returnID, func(r *domain.Return) error {
		before = len(r.StatusHistory)
		if r.Status != domain.ReturnStatusApprovedRefund || r.RefundDetails.RefundTransactionID != "" {
			return storage.ErrUnchanged
		}
		now := e.now()
		method := r.RefundDetails.RefundMethod
		if method == "" {
			method = "original_payment"
		}
		if err := e.refund(ctx, r, r.RefundDetails.RefundAmount, method, "automatic refund for "+r.ReturnNumber, now); err != nil {
			refundErr = err
			r.AddAdminNote(fmt.Sprintf("Automatic refund failed: %v", err), ActorSystem, now)
			r.Notify(domain.TopicReturnRefundStalled, err.Error(), now)
			return nil
		}
		if err := r.Advance(domain.ReturnStatusRefundProcessed, ActorSystem, "Refund issued automatically", now); err != nil {
			return err
		}
		return r.Advance(domain.ReturnStatusCompleted, ActorSystem, "Return completed", now)
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnchanged) {
			return ret, nil
		}
		return nil, err
	}
	if refundErr != nil {
		logger.Error("automatic refund failed, return left at approved_refund",
			zap.String("return_number", ret.ReturnNumber),
			zap.Error(refundErr))
		return ret, refundErr
	}

	countTransitions(ret, before, SourceAuto)
	logger.Info("return refunded automatically",
		zap.String("return_number", ret.ReturnNumber),
		zap.String("transaction_id", ret.RefundDetails.RefundTransactionID),
		zap.String("amount", ret.RefundDetails.RefundAmount.StringFixed(2)))
	return ret, nil
}

// overallCondition is the first unacceptable item condition, or the worse
// of the acceptable ones.
func overallCondition(items []domain.ReturnItem) domain.ItemCondition {
	overall := domain.ConditionUnused
	for _, item := range items {
		if !item.Condition.IsAcceptable() {
			return item.Condition
		}
		if item.Condition == domain.ConditionLightlyUsed {
			overall = domain.ConditionLightlyUsed
		}
	}
	return overall
}

func inspectionNote(items []domain.ReturnItem, acceptable bool) string {
	if acceptable {
		return "All items in acceptable condition"
	}
	if len(items) == 0 {
		return "Manual inspection required: return has no items"
	}
	var flagged []string
	for _, item := range items {
		if !item.Condition.IsAcceptable() {
			flagged = append(flagged, fmt.Sprintf("%s (%s)", item.Name, item.Condition))
		}
	}
	return "Manual inspection required: " + strings.Join(flagged, ", ")
}
