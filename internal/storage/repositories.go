//go:generate mockgen -source ./repositories.go -destination=./mocks/repositories.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/repository"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error)
	GetByAWB(ctx context.Context, awb string) (*repository.Order, error)
	GetByShipmentID(ctx context.Context, shipmentID string) (*repository.Order, error)
	GetByNumber(ctx context.Context, number string) (*repository.Order, error)
	ListByIDSuffix(ctx context.Context, suffix string, limit int) ([]*repository.Order, error)
	UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
}

type ReturnRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, r *repository.Return) error
	UpdateTx(ctx context.Context, tx db.Tx, r *repository.Return) error
	GetByID(ctx context.Context, id string) (*repository.Return, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Return, error)
	GetByNumber(ctx context.Context, number string) (*repository.Return, error)
	GetByPickupAWB(ctx context.Context, awb string) (*repository.Return, error)
	GetByCourierOrderID(ctx context.Context, courierOrderID string) (*repository.Return, error)
	ListByOrder(ctx context.Context, orderID string) ([]*repository.Return, error)
	ListByOrderTx(ctx context.Context, tx db.Tx, orderID string) ([]*repository.Return, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]*repository.Return, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	ListByNamePrefix(ctx context.Context, prefix string, limit int) ([]*repository.User, error)
	ListByIDSuffix(ctx context.Context, suffix string, limit int) ([]*repository.User, error)
}

type CounterRepository interface {
	NextReturnSequenceTx(ctx context.Context, tx db.Tx) (int64, error)
}

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
	GetProcessableTasksTx(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}
