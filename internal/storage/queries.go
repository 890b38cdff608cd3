package storage

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
)

func (s *Storage) GetReturn(ctx context.Context, id string) (*domain.Return, error) {
	row, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "return", id, "failed to get return")
	}
	return returnFromRow(row)
}

func (s *Storage) GetReturnByNumber(ctx context.Context, number string) (*domain.Return, error) {
	row, err := s.returns.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, notFoundOr(err, "return", number, "failed to get return")
	}
	return returnFromRow(row)
}

func (s *Storage) FindReturnByPickupAWB(ctx context.Context, awb string) (*domain.Return, error) {
	row, err := s.returns.GetByPickupAWB(ctx, awb)
	if err != nil {
		return nil, notFoundOr(err, "return", awb, "failed to find return by awb")
	}
	return returnFromRow(row)
}

func (s *Storage) FindReturnByCourierOrderID(ctx context.Context, courierOrderID string) (*domain.Return, error) {
	row, err := s.returns.GetByCourierOrderID(ctx, courierOrderID)
	if err != nil {
		return nil, notFoundOr(err, "return", courierOrderID, "failed to find return by courier order id")
	}
	return returnFromRow(row)
}

func (s *Storage) ListReturnsByOrder(ctx context.Context, orderID string) ([]*domain.Return, error) {
	rows, err := s.returns.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return returnsFromRows(rows)
}

// ListReturnsByStatus lists returns in the given status, newest first. An
// empty status lists every return.
func (s *Storage) ListReturnsByStatus(ctx context.Context, status domain.ReturnStatus, limit int) ([]*domain.Return, error) {
	rows, err := s.returns.ListByStatus(ctx, string(status), limit)
	if err != nil {
		return nil, err
	}
	return returnsFromRows(rows)
}

// ReturnedQuantities reports how many units of each product earlier returns
// of the order already claim.
func (s *Storage) ReturnedQuantities(ctx context.Context, orderID string) (map[string]int, error) {
	returns, err := s.ListReturnsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return domain.ReturnedQuantities(returns), nil
}

func (s *Storage) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order", id, "failed to get order")
	}
	return orderFromRow(row)
}

func (s *Storage) FindOrderByAWB(ctx context.Context, awb string) (*domain.Order, error) {
	row, err := s.orders.GetByAWB(ctx, awb)
	if err != nil {
		return nil, notFoundOr(err, "order", awb, "failed to find order by awb")
	}
	return orderFromRow(row)
}

func (s *Storage) FindOrderByShipmentID(ctx context.Context, shipmentID string) (*domain.Order, error) {
	row, err := s.orders.GetByShipmentID(ctx, shipmentID)
	if err != nil {
		return nil, notFoundOr(err, "order", shipmentID, "failed to find order by shipment id")
	}
	return orderFromRow(row)
}

func (s *Storage) FindOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	row, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, notFoundOr(err, "order", number, "failed to find order by number")
	}
	return orderFromRow(row)
}

func (s *Storage) FindOrdersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.Order, error) {
	rows, err := s.orders.ListByIDSuffix(ctx, suffix, limit)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := orderFromRow(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id, "failed to get user")
	}
	return userFromRow(row), nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFoundOr(err, "user", email, "failed to find user by email")
	}
	return userFromRow(row), nil
}

func (s *Storage) FindUsersByNamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.User, error) {
	rows, err := s.users.ListByNamePrefix(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	return usersFromRows(rows), nil
}

func (s *Storage) FindUsersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.User, error) {
	rows, err := s.users.ListByIDSuffix(ctx, suffix, limit)
	if err != nil {
		return nil, err
	}
	return usersFromRows(rows), nil
}

func returnsFromRows(rows []*repository.Return) ([]*domain.Return, error) {
	returns := make([]*domain.Return, 0, len(rows))
	for _, row := range rows {
		r, err := returnFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode returns: %w", err)
		}
		returns = append(returns, r)
	}
	return returns, nil
}
