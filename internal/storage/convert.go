package storage

import (
	"encoding/json"
	"fmt"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
)

func returnToRow(r *domain.Return) (*repository.Return, error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode return %s: %w", r.ID, err)
	}
	return &repository.Return{
		ID:             r.ID,
		ReturnNumber:   r.ReturnNumber,
		OrderID:        r.OrderID,
		UserID:         r.UserID,
		Status:         string(r.Status),
		PickupAWB:      repository.NullString(r.Pickup.AWBCode),
		CourierOrderID: repository.NullString(r.Pickup.CourierOrderID),
		Source:         string(r.Source),
		Doc:            doc,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

// returnFromRow decodes the document; indexed columns win over the copy in
// doc so an out-of-band column fix is not lost.
func returnFromRow(row *repository.Return) (*domain.Return, error) {
	var r domain.Return
	if len(row.Doc) > 0 {
		if err := json.Unmarshal(row.Doc, &r); err != nil {
			return nil, fmt.Errorf("decode return %s: %w", row.ID, err)
		}
	}
	r.ID = row.ID
	r.ReturnNumber = row.ReturnNumber
	r.OrderID = row.OrderID
	r.UserID = row.UserID
	r.Status = domain.ReturnStatus(row.Status)
	r.Source = domain.Source(row.Source)
	r.CreatedAt = row.CreatedAt
	r.UpdatedAt = row.UpdatedAt
	return &r, nil
}

func orderToRow(o *domain.Order) (*repository.Order, error) {
	doc, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode order %s: %w", o.ID, err)
	}
	return &repository.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		AWBCode:     repository.NullString(o.Shipping.AWBCode),
		ShipmentID:  repository.NullString(o.Shipping.ShipmentID),
		Doc:         doc,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}, nil
}

func orderFromRow(row *repository.Order) (*domain.Order, error) {
	var o domain.Order
	if len(row.Doc) > 0 {
		if err := json.Unmarshal(row.Doc, &o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", row.ID, err)
		}
	}
	o.ID = row.ID
	o.OrderNumber = row.OrderNumber
	o.UserID = row.UserID
	o.Status = domain.OrderStatus(row.Status)
	o.CreatedAt = row.CreatedAt
	o.UpdatedAt = row.UpdatedAt
	return &o, nil
}

func userFromRow(row *repository.User) *domain.User {
	u := &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		Role:         domain.Role(row.Role),
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
	if row.Phone != nil {
		u.Phone = *row.Phone
	}
	return u
}

func usersFromRows(rows []*repository.User) []*domain.User {
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users
}
