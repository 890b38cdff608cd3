package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gemvault/storefront/internal/domain"
)

// flexString accepts a JSON string or number. The courier sends ids both
// ways depending on the integration.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Int returns the numeric value, or 0 when there is none.
func (f flexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}

type ScanPayload struct {
	Date          string     `json:"date"`
	Status        string     `json:"status"`
	Activity      string     `json:"activity"`
	Location      string     `json:"location"`
	SRStatus      flexString `json:"sr-status"`
	SRStatusLabel string     `json:"sr-status-label"`
}

// ShipmentPayload is the envelope of the forward and reverse callbacks.
type ShipmentPayload struct {
	AWB                 flexString    `json:"awb"`
	SROrderID           flexString    `json:"sr_order_id"`
	CurrentStatus       string        `json:"current_status"`
	CurrentStatusID     flexString    `json:"current_status_id"`
	ShipmentStatus      string        `json:"shipment_status"`
	ShipmentStatusID    flexString    `json:"shipment_status_id"`
	CourierName         string        `json:"courier_name"`
	Scans               []ScanPayload `json:"scans"`
	DeliveredDate       string        `json:"delivered_date"`
	PickupScheduledDate string        `json:"pickup_scheduled_date"`
	ETD                 string        `json:"etd"`
	POD                 string        `json:"pod"`
	IsReturn            flexString    `json:"is_return"`
}

// StatusID prefers the shipment status id and falls back to the current
// status id.
func (p *ShipmentPayload) StatusID() int {
	if id := p.ShipmentStatusID.Int(); id != 0 {
		return id
	}
	return p.CurrentStatusID.Int()
}

func (p *ShipmentPayload) StatusLabel() string {
	if p.ShipmentStatus != "" {
		return p.ShipmentStatus
	}
	return p.CurrentStatus
}

// TrackingPayload is the label based tracking feed.
type TrackingPayload struct {
	ShipmentID  flexString    `json:"shipment_id"`
	OrderID     flexString    `json:"order_id"`
	AWB         flexString    `json:"awb"`
	Status      string        `json:"status"`
	CourierName string        `json:"courier_name"`
	Location    string        `json:"location"`
	Timestamp   string        `json:"timestamp"`
	EDD         string        `json:"edd"`
	Scans       []ScanPayload `json:"scans"`
}

const podNotAvailable = "Not Available"

func toScans(in []ScanPayload, at time.Time) []domain.ScanEvent {
	out := make([]domain.ScanEvent, 0, len(in))
	for _, s := range in {
		status := s.Status
		if status == "" {
			status = s.SRStatusLabel
		}
		out = append(out, domain.ScanEvent{
			Timestamp:  strings.TrimSpace(s.Date),
			Status:     status,
			StatusCode: string(s.SRStatus),
			Activity:   s.Activity,
			Location:   s.Location,
			RecordedAt: at,
		})
	}
	return out
}

// latestLocation is the location of the last scan that has one.
func latestLocation(scans []ScanPayload) string {
	for i := len(scans) - 1; i >= 0; i-- {
		if loc := strings.TrimSpace(scans[i].Location); loc != "" {
			return loc
		}
	}
	return ""
}

var courierTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02 Jan 2006",
}

// parseCourierTime reads the courier's date formats, which carry no zone
// and are taken as UTC.
func parseCourierTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range courierTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
