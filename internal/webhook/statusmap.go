package webhook

import (
	"strings"

	"gitlab.com/gemvault/storefront/internal/domain"
)

// The courier speaks three dialects. Forward and reverse callbacks carry
// numeric status ids with different meanings for each direction, and the
// tracking feed sends text labels. The tables are kept apart on purpose.

type forwardMapping struct {
	Shipping domain.ShippingStatus
	Order    domain.OrderStatus
}

const (
	forwardDelivered = 7
	forwardShipped   = 6
	forwardPickedUp  = 42
)

var forwardStatuses = map[int]forwardMapping{
	1:  {domain.ShippingStatusAWBAssigned, domain.OrderStatusProcessing},
	2:  {domain.ShippingStatusLabelGenerated, domain.OrderStatusProcessing},
	3:  {domain.ShippingStatusPickupScheduled, domain.OrderStatusProcessing},
	4:  {domain.ShippingStatusPickupScheduled, domain.OrderStatusProcessing},
	5:  {domain.ShippingStatusManifested, domain.OrderStatusProcessing},
	6:  {domain.ShippingStatusShipped, domain.OrderStatusShipped},
	7:  {domain.ShippingStatusDelivered, domain.OrderStatusDelivered},
	8:  {domain.ShippingStatusCancelled, domain.OrderStatusCancelled},
	9:  {domain.ShippingStatusRTOInitiated, ""},
	10: {domain.ShippingStatusRTODelivered, domain.OrderStatusReturned},
	12: {domain.ShippingStatusLost, ""},
	13: {domain.ShippingStatusPickupError, ""},
	15: {domain.ShippingStatusPickupScheduled, ""},
	17: {domain.ShippingStatusOutForDelivery, domain.OrderStatusOutForDelivery},
	18: {domain.ShippingStatusInTransit, domain.OrderStatusShipped},
	19: {domain.ShippingStatusOutForPickup, domain.OrderStatusProcessing},
	21: {domain.ShippingStatusUndelivered, ""},
	22: {domain.ShippingStatusDelayed, ""},
	38: {domain.ShippingStatusInTransit, domain.OrderStatusShipped},
	42: {domain.ShippingStatusPickedUp, domain.OrderStatusShipped},
}

func isForwardPickup(id int) bool {
	return id == forwardShipped || id == forwardPickedUp
}

type ReverseAction string

const (
	ActionUpdate            ReverseAction = "update"
	ActionTriggerInspection ReverseAction = "trigger_inspection"
	ActionNotifyAdmin       ReverseAction = "notify_admin"
)

type reverseMapping struct {
	Return domain.ReturnStatus // empty keeps the current status
	Pickup string
	Action ReverseAction
}

var reverseStatuses = map[int]reverseMapping{
	1:  {"", "awb_assigned", ActionUpdate},
	3:  {domain.ReturnStatusPickupScheduled, "scheduled", ActionUpdate},
	4:  {domain.ReturnStatusPickupScheduled, "scheduled", ActionUpdate},
	6:  {domain.ReturnStatusInTransit, "picked_up", ActionUpdate},
	7:  {domain.ReturnStatusReceived, "delivered", ActionTriggerInspection},
	8:  {domain.ReturnStatusCancelled, "cancelled", ActionNotifyAdmin},
	12: {"", "lost", ActionNotifyAdmin},
	13: {domain.ReturnStatusPickupFailed, "failed", ActionNotifyAdmin},
	15: {domain.ReturnStatusPickupScheduled, "rescheduled", ActionUpdate},
	17: {domain.ReturnStatusInTransit, "out_for_delivery", ActionUpdate},
	18: {domain.ReturnStatusInTransit, "in_transit", ActionUpdate},
	19: {"", "out_for_pickup", ActionUpdate},
	21: {"", "undelivered", ActionNotifyAdmin},
	38: {domain.ReturnStatusInTransit, "in_transit", ActionUpdate},
	42: {domain.ReturnStatusPickedUp, "picked_up", ActionUpdate},
}

var labelStatuses = map[string]forwardMapping{
	"AWB ASSIGNED":     {domain.ShippingStatusAWBAssigned, domain.OrderStatusProcessing},
	"LABEL GENERATED":  {domain.ShippingStatusLabelGenerated, domain.OrderStatusProcessing},
	"PICKUP SCHEDULED": {domain.ShippingStatusPickupScheduled, domain.OrderStatusProcessing},
	"PICKUP GENERATED": {domain.ShippingStatusPickupScheduled, domain.OrderStatusProcessing},
	"MANIFESTED":       {domain.ShippingStatusManifested, domain.OrderStatusProcessing},
	"OUT FOR PICKUP":   {domain.ShippingStatusOutForPickup, domain.OrderStatusProcessing},
	"PICKUP EXCEPTION": {domain.ShippingStatusPickupError, ""},
	"PICKED UP":        {domain.ShippingStatusPickedUp, domain.OrderStatusShipped},
	"SHIPPED":          {domain.ShippingStatusShipped, domain.OrderStatusShipped},
	"IN TRANSIT":       {domain.ShippingStatusInTransit, domain.OrderStatusShipped},
	"OUT FOR DELIVERY": {domain.ShippingStatusOutForDelivery, domain.OrderStatusOutForDelivery},
	"DELIVERED":        {domain.ShippingStatusDelivered, domain.OrderStatusDelivered},
	"UNDELIVERED":      {domain.ShippingStatusUndelivered, ""},
	"DELAYED":          {domain.ShippingStatusDelayed, ""},
	"RTO":              {domain.ShippingStatusRTOInitiated, ""},
	"RTO INITIATED":    {domain.ShippingStatusRTOInitiated, ""},
	"RTO DELIVERED":    {domain.ShippingStatusRTODelivered, domain.OrderStatusReturned},
	"LOST":             {domain.ShippingStatusLost, ""},
	"CANCELLED":        {domain.ShippingStatusCancelled, domain.OrderStatusCancelled},
	"CANCELED":         {domain.ShippingStatusCancelled, domain.OrderStatusCancelled},
}

// normalizeLabel folds case, separators and repeated spaces so "Out_For
// delivery" and "OUT FOR DELIVERY" match.
func normalizeLabel(label string) string {
	label = strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToUpper(label))
	return strings.Join(strings.Fields(label), " ")
}
