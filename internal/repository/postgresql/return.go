package postgresql

import (
	"context"
	"fmt"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/repository"
	"gitlab.com/gemvault/storefront/internal/storage"
)

const returnColumns = `id, return_number, order_id, user_id, status, pickup_awb, courier_order_id, source, doc, created_at, updated_at`

type ReturnRepo struct {
	db db.DB
}

func NewReturnRepo(db db.DB) storage.ReturnRepository {
	return &ReturnRepo{db: db}
}

func (r *ReturnRepo) CreateTx(ctx context.Context, tx db.Tx, ret *repository.Return) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO returns (
            id, return_number, order_id, user_id, status, pickup_awb, courier_order_id, source, doc, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, ret.ID, ret.ReturnNumber, ret.OrderID, ret.UserID, ret.Status, ret.PickupAWB, ret.CourierOrderID,
		ret.Source, ret.Doc, ret.CreatedAt, ret.UpdatedAt)
	return activeReturnConflict(err)
}

func (r *ReturnRepo) UpdateTx(ctx context.Context, tx db.Tx, ret *repository.Return) error {
	tag, err := tx.Exec(ctx, `
        UPDATE returns
        SET
            status = $1,
            pickup_awb = $2,
            courier_order_id = $3,
            doc = $4,
            updated_at = $5
        WHERE id = $6
    `, ret.Status, ret.PickupAWB, ret.CourierOrderID, ret.Doc, ret.UpdatedAt, ret.ID)
	if err != nil {
		return activeReturnConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*repository.Return, error) {
	return r.getOne(ctx, "SELECT "+returnColumns+" FROM returns WHERE id = $1", id)
}

func (r *ReturnRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Return, error) {
	var ret repository.Return
	err := tx.Get(ctx, &ret, "SELECT "+returnColumns+" FROM returns WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &ret, nil
}

func (r *ReturnRepo) GetByNumber(ctx context.Context, number string) (*repository.Return, error) {
	return r.getOne(ctx, "SELECT "+returnColumns+" FROM returns WHERE return_number = $1", number)
}

// GetByPickupAWB returns the most recent return carrying the AWB.
func (r *ReturnRepo) GetByPickupAWB(ctx context.Context, awb string) (*repository.Return, error) {
	return r.getOne(ctx, "SELECT "+returnColumns+" FROM returns WHERE pickup_awb = $1 ORDER BY created_at DESC LIMIT 1", awb)
}

func (r *ReturnRepo) GetByCourierOrderID(ctx context.Context, courierOrderID string) (*repository.Return, error) {
	return r.getOne(ctx, "SELECT "+returnColumns+" FROM returns WHERE courier_order_id = $1 ORDER BY created_at DESC LIMIT 1", courierOrderID)
}

func (r *ReturnRepo) ListByOrder(ctx context.Context, orderID string) ([]*repository.Return, error) {
	var returns []*repository.Return
	err := r.db.Select(ctx, &returns, "SELECT "+returnColumns+" FROM returns WHERE order_id = $1 ORDER BY created_at", orderID)
	if err != nil {
		return nil, fmt.Errorf("list returns by order: %w", err)
	}
	return returns, nil
}

func (r *ReturnRepo) ListByOrderTx(ctx context.Context, tx db.Tx, orderID string) ([]*repository.Return, error) {
	var returns []*repository.Return
	err := tx.Select(ctx, &returns, "SELECT "+returnColumns+" FROM returns WHERE order_id = $1 ORDER BY created_at", orderID)
	if err != nil {
		return nil, fmt.Errorf("list returns by order: %w", err)
	}
	return returns, nil
}

func (r *ReturnRepo) ListByStatus(ctx context.Context, status string, limit int) ([]*repository.Return, error) {
	query := "SELECT " + returnColumns + " FROM returns"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY updated_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var returns []*repository.Return
	if err := r.db.Select(ctx, &returns, query, args...); err != nil {
		return nil, fmt.Errorf("list returns by status: %w", err)
	}
	return returns, nil
}

func (r *ReturnRepo) getOne(ctx context.Context, query string, arg string) (*repository.Return, error) {
	var ret repository.Return
	if err := r.db.Get(ctx, &ret, query, arg); err != nil {
		return nil, notFound(err)
	}
	return &ret, nil
}
