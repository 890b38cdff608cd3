package repository

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

// Order is a row of the orders table. Lookup keys are columns, the rest of
// the document lives in doc.
type Order struct {
	ID          string          `db:"id"`
	OrderNumber string          `db:"order_number"`
	UserID      string          `db:"user_id"`
	Status      string          `db:"status"`
	AWBCode     *string         `db:"awb_code"`
	ShipmentID  *string         `db:"shipment_id"`
	Doc         json.RawMessage `db:"doc"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type Return struct {
	ID             string          `db:"id"`
	ReturnNumber   string          `db:"return_number"`
	OrderID        string          `db:"order_id"`
	UserID         string          `db:"user_id"`
	Status         string          `db:"status"`
	PickupAWB      *string         `db:"pickup_awb"`
	CourierOrderID *string         `db:"courier_order_id"`
	Source         string          `db:"source"`
	Doc            json.RawMessage `db:"doc"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Phone        *string   `db:"phone"`
	Role         string    `db:"role"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// NullString maps an empty string to SQL NULL so unique indexes ignore it.
func NullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
