package postgresql

import (
	"context"
	"fmt"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/repository"
	"gitlab.com/gemvault/storefront/internal/storage"
)

const orderColumns = `id, order_number, user_id, status, awb_code, shipment_id, doc, created_at, updated_at`

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) storage.OrderRepository {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	return r.getOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error) {
	var order repository.Order
	err := tx.Get(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *OrderRepo) GetByAWB(ctx context.Context, awb string) (*repository.Order, error) {
	return r.getOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE awb_code = $1", awb)
}

func (r *OrderRepo) GetByShipmentID(ctx context.Context, shipmentID string) (*repository.Order, error) {
	return r.getOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE shipment_id = $1", shipmentID)
}

func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*repository.Order, error) {
	return r.getOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_number = $1", number)
}

func (r *OrderRepo) ListByIDSuffix(ctx context.Context, suffix string, limit int) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT `+orderColumns+` FROM orders
        WHERE lower(id) LIKE '%' || lower($1) ESCAPE '\'
        ORDER BY created_at DESC
        LIMIT $2
    `, escapeLike(suffix), limit)
	if err != nil {
		return nil, fmt.Errorf("list orders by id suffix: %w", err)
	}
	return orders, nil
}

func (r *OrderRepo) UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	tag, err := tx.Exec(ctx, `
        UPDATE orders
        SET
            status = $1,
            awb_code = $2,
            shipment_id = $3,
            doc = $4,
            updated_at = $5
        WHERE id = $6
    `, order.Status, order.AWBCode, order.ShipmentID, order.Doc, order.UpdatedAt, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg string) (*repository.Order, error) {
	var order repository.Order
	if err := r.db.Get(ctx, &order, query, arg); err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}
