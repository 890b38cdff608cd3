package returns

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"gitlab.com/gemvault/storefront/internal/domain"
)

type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionSchedulePickup Action = "schedule_pickup"
	ActionMarkPicked     Action = "mark_picked"
	ActionMarkInTransit  Action = "mark_in_transit"
	ActionMarkReceived   Action = "mark_received"
	ActionInspect        Action = "inspect"
	ActionProcessRefund  Action = "process_refund"
	ActionComplete       Action = "complete"
	ActionCancel         Action = "cancel"
	ActionUpdateStatus   Action = "update_status"
)

// AdminRequest is the body of the multiplexed admin update.
type AdminRequest struct {
	Action         Action               `json:"action" validate:"required"`
	Status         domain.ReturnStatus  `json:"status"`
	Note           string               `json:"note" validate:"max=2000"`
	InspectionData *InspectionInput     `json:"inspectionData"`
	RefundDetails  *RefundInput         `json:"refundDetails"`
	PickupSchedule *PickupScheduleInput `json:"pickupSchedule"`
}

type InspectionInput struct {
	Condition domain.ItemCondition `json:"condition" validate:"required,oneof=unused lightly_used used damaged defective missing_parts"`
	Approved  bool                 `json:"approved"`
	Notes     string               `json:"notes"`
	Photos    []string             `json:"photos" validate:"max=20,dive,url"`
}

type RefundInput struct {
	RefundAmount        *decimal.Decimal `json:"refundAmount"`
	RefundMethod        string           `json:"refundMethod"`
	RefundTransactionID string           `json:"refundTransactionId"`
}

type PickupScheduleInput struct {
	ScheduledDate  time.Time `json:"scheduledDate"`
	TimeSlot       string    `json:"timeSlot"`
	AWBCode        string    `json:"awbCode"`
	CourierName    string    `json:"courierName"`
	CourierOrderID string    `json:"courierOrderId"`
}

type ItemInput struct {
	ProductID    string               `json:"productId" validate:"required"`
	Quantity     int                  `json:"quantity" validate:"gt=0"`
	ReturnReason string               `json:"returnReason" validate:"max=500"`
	Condition    domain.ItemCondition `json:"condition" validate:"required,oneof=unused lightly_used used damaged defective missing_parts"`
}

// CustomerReturnRequest is a return raised from the storefront.
type CustomerReturnRequest struct {
	OrderID       string          `json:"orderId" validate:"required"`
	Reason        string          `json:"reason" validate:"required,max=1000"`
	Items         []ItemInput     `json:"items" validate:"required,min=1,dive"`
	PickupAddress *domain.Address `json:"pickupAddress"`
}

// ManualReturnRequest is a return created by an admin from loose
// references.
type ManualReturnRequest struct {
	OrderRef      string              `json:"orderRef" validate:"required"`
	CustomerRef   string              `json:"customerRef"`
	Reason        string              `json:"reason" validate:"required,max=1000"`
	Items         []ItemInput         `json:"items" validate:"required,min=1,dive"`
	Status        domain.ReturnStatus `json:"status" validate:"omitempty,oneof=requested approved"`
	Note          string              `json:"note" validate:"max=2000"`
	PickupAddress *domain.Address     `json:"pickupAddress"`
}

// ManualRefundRequest grants a refund without a physical return.
type ManualRefundRequest struct {
	OrderRef      string          `json:"orderRef" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason" validate:"required,max=1000"`
	RefundMethod  string          `json:"refundMethod"`
	TransactionID string          `json:"transactionId"`
	Note          string          `json:"note" validate:"max=2000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct turns the first validator failure into a ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	return &domain.ValidationError{Field: field, Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
