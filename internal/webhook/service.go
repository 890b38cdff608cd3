//go:generate mockgen -source ./service.go -destination=./mocks/service.go -package=mock_webhook
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/idempotency"
	"gitlab.com/gemvault/storefront/internal/metrics"
)

const (
	KindForward  = "forward"
	KindReverse  = "reverse"
	KindTracking = "tracking"

	actorCourier = "courier"
)

type Store interface {
	FindOrderByAWB(ctx context.Context, awb string) (*domain.Order, error)
	FindOrderByShipmentID(ctx context.Context, shipmentID string) (*domain.Order, error)
	FindOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error)
	FindReturnByPickupAWB(ctx context.Context, awb string) (*domain.Return, error)
	FindReturnByCourierOrderID(ctx context.Context, courierOrderID string) (*domain.Return, error)
	UpdateReturn(ctx context.Context, id string, fn func(*domain.Return) error) (*domain.Return, error)
}

// Inspector runs the automatic inspection and refund chain for a received
// return.
type Inspector interface {
	AutoInspect(ctx context.Context, returnID string) (*domain.Return, error)
}

type DeliveryStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) (bool, error)
}

// Verifiers holds one signature verifier per webhook endpoint.
type Verifiers struct {
	Forward  *Verifier
	Reverse  *Verifier
	Tracking *Verifier
}

// Result is the acknowledgement body sent back to the courier. The HTTP
// status is always 200; Success carries the outcome.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrderID       string `json:"orderId,omitempty"`
	ReturnID      string `json:"returnId,omitempty"`
	Status        string `json:"status,omitempty"`
	Duplicate     bool   `json:"duplicate,omitempty"`
	RefundStalled bool   `json:"refundStalled,omitempty"`
}

type Service struct {
	store      Store
	inspector  Inspector
	deliveries DeliveryStore
	verifiers  Verifiers
	logger     *zap.Logger
	timeNow    func() time.Time
}

// NewService builds the ingestion service. deliveries may be nil, in which
// case every delivery is processed.
func NewService(store Store, inspector Inspector, deliveries DeliveryStore, verifiers Verifiers, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		inspector:  inspector,
		deliveries: deliveries,
		verifiers:  verifiers,
		logger:     logger,
		timeNow:    time.Now,
	}
}

func (s *Service) now() time.Time {
	return s.timeNow().UTC()
}

// HandleForward applies a forward shipment callback to its order.
func (s *Service) HandleForward(ctx context.Context, body []byte, signature string) Result {
	return s.handle(ctx, KindForward, s.verifiers.Forward, body, signature, s.processForward)
}

// HandleReverse applies a reverse pickup callback to its return and runs
// the automatic inspection when the parcel has arrived.
func (s *Service) HandleReverse(ctx context.Context, body []byte, signature string) Result {
	return s.handle(ctx, KindReverse, s.verifiers.Reverse, body, signature, s.processReverse)
}

// HandleTrackingUpdate applies a label based tracking callback to its order.
func (s *Service) HandleTrackingUpdate(ctx context.Context, body []byte, signature string) Result {
	return s.handle(ctx, KindTracking, s.verifiers.Tracking, body, signature, s.processTracking)
}

type processFunc func(ctx context.Context, body []byte, logger *zap.Logger) (Result, error)

func (s *Service) handle(ctx context.Context, kind string, verifier *Verifier, body []byte, signature string, process processFunc) (res Result) {
	logger := s.logger.With(zap.String("webhook", kind))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("webhook handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "panic").Inc()
			res = Result{Success: false, Message: "internal error"}
		}
	}()

	if verifier != nil {
		if err := verifier.Verify(body, signature); err != nil {
			logger.Warn("webhook signature rejected", zap.Error(err))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "unauthorized").Inc()
			return Result{Success: false, Message: "signature verification failed"}
		}
	}

	key := idempotency.DeliveryKey(kind, body)
	if s.deliveries != nil {
		seen, err := s.deliveries.Seen(ctx, key)
		if err != nil {
			logger.Warn("delivery store lookup failed, processing anyway", zap.Error(err))
		} else if seen {
			logger.Info("duplicate webhook delivery acknowledged", zap.String("key", key))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "duplicate").Inc()
			return Result{Success: true, Message: "duplicate delivery", Duplicate: true}
		}
	}

	res, err := process(ctx, body, logger)
	if err != nil {
		var (
			nf *domain.NotFoundError
			ve *domain.ValidationError
		)
		switch {
		case errors.As(err, &nf):
			logger.Warn("webhook references unknown entity", zap.Error(err))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "not_found").Inc()
		case errors.As(err, &ve):
			logger.Warn("webhook payload rejected", zap.Error(err))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "invalid").Inc()
		default:
			logger.Error("webhook processing failed", zap.Error(err))
			metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "error").Inc()
		}
		res.Success = false
		res.Message = err.Error()
		return res
	}

	if s.deliveries != nil {
		if _, err := s.deliveries.Mark(ctx, key); err != nil {
			logger.Warn("failed to mark webhook delivery", zap.Error(err))
		}
	}
	outcome := "processed"
	if res.RefundStalled {
		outcome = "refund_stalled"
	}
	metrics.WebhookDeliveriesTotal.WithLabelValues(kind, outcome).Inc()
	res.Success = true
	return res
}

type finder[T any] struct {
	ref  string
	find func(context.Context, string) (*T, error)
}

// findFirst tries each non-empty reference in order and moves on only when
// the previous one was not found.
func findFirst[T any](ctx context.Context, entity string, finders ...finder[T]) (*T, error) {
	var refs []string
	for _, f := range finders {
		if f.ref == "" {
			continue
		}
		refs = append(refs, f.ref)
		v, err := f.find(ctx, f.ref)
		if err == nil {
			return v, nil
		}
		var nf *domain.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}
	if len(refs) == 0 {
		return nil, &domain.ValidationError{Message: "payload carries no " + entity + " reference"}
	}
	return nil, &domain.NotFoundError{Entity: entity, Ref: strings.Join(refs, "/")}
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid payload: %v", err)}
	}
	return nil
}

func (s *Service) processForward(ctx context.Context, body []byte, logger *zap.Logger) (Result, error) {
	var p ShipmentPayload
	if err := decode(body, &p); err != nil {
		return Result{}, err
	}
	awb := string(p.AWB)
	logger = logger.With(zap.String("awb", awb), zap.String("sr_order_id", string(p.SROrderID)))

	order, err := findFirst(ctx, "order",
		finder[domain.Order]{awb, s.store.FindOrderByAWB},
		finder[domain.Order]{string(p.SROrderID), s.store.FindOrderByShipmentID},
	)
	if err != nil {
		return Result{}, err
	}

	code, label := p.StatusID(), p.StatusLabel()
	mapping, mapped := forwardStatuses[code]
	if !mapped {
		logger.Warn("unmapped forward status, tracking metadata only",
			zap.Int("status_code", code), zap.String("status_label", label))
		metrics.UnmappedStatusTotal.WithLabelValues(KindForward).Inc()
	}

	now := s.now()
	u := shipmentUpdate{
		awb:      awb,
		courier:  p.CourierName,
		location: latestLocation(p.Scans),
		label:    label,
		scans:    toScans(p.Scans, now),
		dedup:    domain.AppendScansByTimestamp,
		mapping:  mapping,
		mapped:   mapped,
		pickup:   isForwardPickup(code),
		pod:      p.POD,
	}
	if code == forwardDelivered {
		u.delivered = true
		u.deliveredAt = timePtr(p.DeliveredDate)
	}
	u.etd = timePtr(p.ETD)
	u.pickupScheduled = timePtr(p.PickupScheduledDate)

	updated, err := s.store.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
		s.applyShipment(o, u, now, logger)
		return nil
	})
	if err != nil {
		return Result{OrderID: order.ID}, err
	}
	return Result{
		Message: "order updated",
		OrderID: updated.ID,
		Status:  string(updated.Status),
	}, nil
}

func (s *Service) processTracking(ctx context.Context, body []byte, logger *zap.Logger) (Result, error) {
	var p TrackingPayload
	if err := decode(body, &p); err != nil {
		return Result{}, err
	}
	logger = logger.With(zap.String("shipment_id", string(p.ShipmentID)), zap.String("order_ref", string(p.OrderID)))

	order, err := findFirst(ctx, "order",
		finder[domain.Order]{string(p.ShipmentID), s.store.FindOrderByShipmentID},
		finder[domain.Order]{string(p.OrderID), s.store.FindOrderByNumber},
		finder[domain.Order]{string(p.AWB), s.store.FindOrderByAWB},
	)
	if err != nil {
		return Result{}, err
	}

	label := normalizeLabel(p.Status)
	mapping, mapped := labelStatuses[label]
	if !mapped {
		logger.Warn("unmapped tracking label, tracking metadata only", zap.String("status_label", p.Status))
		metrics.UnmappedStatusTotal.WithLabelValues(KindTracking).Inc()
	}

	now := s.now()
	scans := p.Scans
	if len(scans) == 0 && strings.TrimSpace(p.Timestamp) != "" {
		scans = []ScanPayload{{Date: p.Timestamp, Status: p.Status, Location: p.Location}}
	}
	location := strings.TrimSpace(p.Location)
	if location == "" {
		location = latestLocation(scans)
	}
	u := shipmentUpdate{
		awb:       string(p.AWB),
		courier:   p.CourierName,
		location:  location,
		label:     p.Status,
		scans:     toScans(scans, now),
		dedup:     domain.AppendScansByTimestampAndStatus,
		mapping:   mapping,
		mapped:    mapped,
		delivered: mapped && mapping.Shipping == domain.ShippingStatusDelivered,
		pickup:    mapped && mapping.Shipping == domain.ShippingStatusPickedUp,
		etd:       timePtr(p.EDD),
	}
	if u.delivered {
		u.deliveredAt = timePtr(p.Timestamp)
	}

	updated, err := s.store.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
		s.applyShipment(o, u, now, logger)
		return nil
	})
	if err != nil {
		return Result{OrderID: order.ID}, err
	}
	return Result{
		Message: "order updated",
		OrderID: updated.ID,
		Status:  string(updated.Status),
	}, nil
}

type shipmentUpdate struct {
	awb      string
	courier  string
	location string
	label    string
	scans    []domain.ScanEvent
	dedup    func(history, scans []domain.ScanEvent) ([]domain.ScanEvent, int)

	mapping   forwardMapping
	mapped    bool
	delivered bool
	pickup    bool

	deliveredAt     *time.Time
	etd             *time.Time
	pickupScheduled *time.Time
	pod             string
}

// applyShipment writes a courier update into the order's shipping record.
// Order status moves only forward; settled orders keep their status.
func (s *Service) applyShipment(o *domain.Order, u shipmentUpdate, now time.Time, logger *zap.Logger) {
	sh := &o.Shipping
	if c := strings.TrimSpace(u.courier); c != "" {
		sh.CourierName = c
	}
	if u.awb != "" && sh.AWBCode == "" {
		sh.AWBCode = u.awb
	}
	if sh.AWBCode != "" && sh.AWBAssignedAt == nil {
		sh.AWBAssignedAt = &now
	}

	var added int
	sh.TrackingHistory, added = u.dedup(sh.TrackingHistory, u.scans)
	switch {
	case u.location != "":
		sh.CurrentLocation = u.location
	case u.label != "":
		sh.CurrentLocation = u.label
	}
	sh.LastUpdateAt = &now
	if u.etd != nil {
		sh.EstimatedDelivery = u.etd
	}
	if u.pickupScheduled != nil {
		sh.PickupScheduledDate = u.pickupScheduled
	}
	if pod := strings.TrimSpace(u.pod); pod != "" && !strings.EqualFold(pod, podNotAvailable) {
		sh.ProofOfDeliveryURL = pod
	}
	if added > 0 {
		logger.Debug("tracking scans appended", zap.Int("added", added))
	}
	if !u.mapped {
		return
	}

	sh.Status = u.mapping.Shipping
	if u.delivered && sh.DeliveredAt == nil {
		at := now
		if u.deliveredAt != nil {
			at = *u.deliveredAt
		}
		sh.DeliveredAt = &at
	}
	if u.pickup && sh.PickedUpAt == nil {
		sh.PickedUpAt = &now
	}

	target := u.mapping.Order
	if target != "" && target != o.Status {
		if o.AdvanceStatus(target, actorCourier, now) {
			logger.Info("order status updated by courier",
				zap.String("order_number", o.OrderNumber), zap.String("status", string(o.Status)))
		} else {
			logger.Info("courier order status ignored",
				zap.String("order_number", o.OrderNumber),
				zap.String("current", string(o.Status)),
				zap.String("target", string(target)))
		}
	}
	if u.delivered && o.MarkCODPaid(now) {
		logger.Info("cod order marked paid on delivery", zap.String("order_number", o.OrderNumber))
	}
}

func (s *Service) processReverse(ctx context.Context, body []byte, logger *zap.Logger) (Result, error) {
	var p ShipmentPayload
	if err := decode(body, &p); err != nil {
		return Result{}, err
	}
	awb, courierOrderID := string(p.AWB), string(p.SROrderID)
	logger = logger.With(zap.String("awb", awb), zap.String("sr_order_id", courierOrderID))

	found, err := findFirst(ctx, "return",
		finder[domain.Return]{awb, s.store.FindReturnByPickupAWB},
		finder[domain.Return]{courierOrderID, s.store.FindReturnByCourierOrderID},
	)
	if err != nil {
		return Result{}, err
	}
	logger = logger.With(zap.String("return_id", found.ID))

	code, label := p.StatusID(), p.StatusLabel()
	mapping, mapped := reverseStatuses[code]
	if !mapped {
		logger.Warn("unmapped reverse status, tracking metadata only",
			zap.Int("status_code", code), zap.String("status_label", label))
		metrics.UnmappedStatusTotal.WithLabelValues(KindReverse).Inc()
	}

	now := s.now()
	scans := toScans(p.Scans, now)
	location := latestLocation(p.Scans)
	scheduled := timePtr(p.PickupScheduledDate)

	var transitioned bool
	ret, err := s.store.UpdateReturn(ctx, found.ID, func(r *domain.Return) error {
		transitioned = false
		pk := &r.Pickup
		if awb != "" && pk.AWBCode == "" {
			pk.AWBCode = awb
		}
		if courierOrderID != "" && pk.CourierOrderID == "" {
			pk.CourierOrderID = courierOrderID
		}
		if c := strings.TrimSpace(p.CourierName); c != "" {
			pk.CourierName = c
		}
		pk.TrackingHistory, _ = domain.AppendScansByTimestampAndCode(pk.TrackingHistory, scans)
		switch {
		case location != "":
			pk.CurrentLocation = location
		case label != "":
			pk.CurrentLocation = label
		}
		pk.LastUpdateAt = &now
		if scheduled != nil {
			pk.ScheduledDate = scheduled
		}
		if !mapped {
			return nil
		}

		pickupChanged := pk.PickupStatus != mapping.Pickup
		pk.PickupStatus = mapping.Pickup
		if mapping.Pickup == "picked_up" && pk.ActualPickupDate == nil {
			pk.ActualPickupDate = &now
		}

		if mapping.Return != "" {
			note := fmt.Sprintf("Courier update: %s", label)
			err := r.Advance(mapping.Return, actorCourier, note, now)
			var te *domain.TransitionError
			switch {
			case err == nil:
				transitioned = true
			case errors.Is(err, domain.ErrStatusUnchanged):
			case errors.As(err, &te):
				logger.Warn("courier status out of order, skipped",
					zap.String("current", string(te.From)), zap.String("target", string(te.To)))
			default:
				return err
			}
		}
		if mapping.Action == ActionNotifyAdmin && (transitioned || pickupChanged) {
			reason := fmt.Sprintf("courier reported %s (code %d)", label, code)
			r.AddAdminNote(reason, actorCourier, now)
			r.Notify(domain.TopicReturnAdminAttention, reason, now)
		}
		return nil
	})
	if err != nil {
		return Result{ReturnID: found.ID}, err
	}
	if transitioned {
		metrics.ReturnTransitionsTotal.WithLabelValues(string(ret.Status), actorCourier).Inc()
		logger.Info("return status updated by courier",
			zap.String("return_number", ret.ReturnNumber), zap.String("status", string(ret.Status)))
	}

	res := Result{Message: "return updated", ReturnID: ret.ID, OrderID: ret.OrderID, Status: string(ret.Status)}
	// A delivered scan on a return still sitting at received resumes an
	// inspection that failed before it committed.
	if mapping.Action != ActionTriggerInspection || ret.Status != domain.ReturnStatusReceived || s.inspector == nil {
		return res, nil
	}

	// A refund failure still commits the return at approved_refund and
	// hands it back alongside the error.
	inspected, err := s.inspector.AutoInspect(ctx, ret.ID)
	switch {
	case err == nil:
		res.Message = "return received and inspected"
	case inspected != nil:
		logger.Warn("automatic refund stalled", zap.Error(err))
		res.RefundStalled = true
		res.Message = "return received, automatic refund stalled"
	default:
		return res, fmt.Errorf("automatic inspection: %w", err)
	}
	if inspected != nil {
		res.Status = string(inspected.Status)
	}
	return res, nil
}

func timePtr(s string) *time.Time {
	t, ok := parseCourierTime(s)
	if !ok {
		return nil
	}
	return &t
}
