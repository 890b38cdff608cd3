package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
)

// ErrUnchanged is returned by an update callback that decided there is
// nothing to write. The transaction is rolled back.
var ErrUnchanged = errors.New("entity unchanged")

type Storage struct {
	db      db.DB
	orders  OrderRepository
	returns ReturnRepository
	users   UserRepository
	counter CounterRepository
	outbox  OutboxTaskRepository
	timeNow func() time.Time
}

func NewStorage(
	database db.DB,
	orders OrderRepository,
	returns ReturnRepository,
	users UserRepository,
	counter CounterRepository,
	outbox OutboxTaskRepository,
) *Storage {
	return &Storage{
		db:      database,
		orders:  orders,
		returns: returns,
		users:   users,
		counter: counter,
		outbox:  outbox,
		timeNow: time.Now,
	}
}

func (s *Storage) inTx(ctx context.Context, fn func(tx db.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateReturn inserts a new return under a lock on its order. The order
// may have at most one non-terminal return and item quantities may not
// exceed the order lines. mutateOrder, when set, runs on the locked order
// in the same transaction.
func (s *Storage) CreateReturn(ctx context.Context, ret *domain.Return, mutateOrder func(*domain.Order) error) error {
	return s.inTx(ctx, func(tx db.Tx) error {
		orderRow, err := s.orders.GetByIDTx(ctx, tx, ret.OrderID)
		if err != nil {
			return notFoundOr(err, "order", ret.OrderID, "failed to lock order")
		}
		order, err := orderFromRow(orderRow)
		if err != nil {
			return err
		}

		existingRows, err := s.returns.ListByOrderTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		existing := make([]*domain.Return, 0, len(existingRows))
		for _, row := range existingRows {
			r, err := returnFromRow(row)
			if err != nil {
				return err
			}
			if !ret.Status.IsTerminal() && !r.Status.IsTerminal() {
				return domain.ErrActiveReturnExists
			}
			existing = append(existing, r)
		}
		if err := domain.CheckReturnQuantities(order, existing, ret.Items); err != nil {
			return err
		}
		if ret.RefundDetails.RefundProcessedAt != nil {
			if err := domain.CheckRefundTotal(order, existing, ret.RefundDetails.RefundAmount); err != nil {
				return err
			}
		}

		seq, err := s.counter.NextReturnSequenceTx(ctx, tx)
		if err != nil {
			return err
		}
		now := s.timeNow().UTC()
		if ret.ID == "" {
			ret.ID = uuid.NewString()
		}
		ret.ReturnNumber = domain.FormatReturnNumber(now, seq)
		if ret.CreatedAt.IsZero() {
			ret.CreatedAt = now
		}
		ret.UpdatedAt = now
		if err := ret.CheckHistory(); err != nil {
			return err
		}

		row, err := returnToRow(ret)
		if err != nil {
			return err
		}
		if err := s.returns.CreateTx(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to insert return: %w", err)
		}

		// history built before insert has no id or number yet
		ret.PullEvents()
		last := ret.StatusHistory[len(ret.StatusHistory)-1]
		events := []domain.Event{{
			Topic: domain.TopicReturnStatusChanged,
			Key:   ret.ID,
			Payload: domain.ReturnStatusChanged{
				ReturnID:     ret.ID,
				ReturnNumber: ret.ReturnNumber,
				OrderID:      ret.OrderID,
				To:           ret.Status,
				Actor:        last.UpdatedBy,
				Note:         last.Note,
				OccurredAt:   now,
			},
		}}

		if mutateOrder != nil {
			if err := mutateOrder(order); err != nil {
				return err
			}
			if err := s.saveOrder(ctx, tx, order); err != nil {
				return err
			}
			events = append(events, order.PullEvents()...)
		}
		return s.writeEvents(ctx, tx, events)
	})
}

// UpdateReturn locks the return, applies fn and saves the result. When fn
// returns ErrUnchanged nothing is written and the loaded return is handed
// back together with the error.
func (s *Storage) UpdateReturn(ctx context.Context, id string, fn func(*domain.Return) error) (*domain.Return, error) {
	var ret *domain.Return
	err := s.inTx(ctx, func(tx db.Tx) error {
		row, err := s.returns.GetByIDTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "return", id, "failed to lock return")
		}
		ret, err = returnFromRow(row)
		if err != nil {
			return err
		}

		historyLen := len(ret.StatusHistory)
		if err := fn(ret); err != nil {
			return err
		}
		if len(ret.StatusHistory) < historyLen {
			return fmt.Errorf("return %s: status history shrank from %d to %d entries", id, historyLen, len(ret.StatusHistory))
		}
		if err := ret.CheckHistory(); err != nil {
			return err
		}
		ret.UpdatedAt = s.timeNow().UTC()

		updated, err := returnToRow(ret)
		if err != nil {
			return err
		}
		if err := s.returns.UpdateTx(ctx, tx, updated); err != nil {
			return fmt.Errorf("failed to update return: %w", err)
		}
		return s.writeEvents(ctx, tx, ret.PullEvents())
	})
	if err != nil {
		if errors.Is(err, ErrUnchanged) && ret != nil {
			ret.PullEvents()
			return ret, err
		}
		return nil, err
	}
	return ret, nil
}

// UpdateOrder is the order counterpart of UpdateReturn.
func (s *Storage) UpdateOrder(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	var order *domain.Order
	err := s.inTx(ctx, func(tx db.Tx) error {
		row, err := s.orders.GetByIDTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "order", id, "failed to lock order")
		}
		order, err = orderFromRow(row)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		order.UpdatedAt = s.timeNow().UTC()
		if err := s.saveOrder(ctx, tx, order); err != nil {
			return err
		}
		return s.writeEvents(ctx, tx, order.PullEvents())
	})
	if err != nil {
		if errors.Is(err, ErrUnchanged) && order != nil {
			order.PullEvents()
			return order, err
		}
		return nil, err
	}
	return order, nil
}

func (s *Storage) saveOrder(ctx context.Context, tx db.Tx, order *domain.Order) error {
	row, err := orderToRow(order)
	if err != nil {
		return err
	}
	if err := s.orders.UpdateTx(ctx, tx, row); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (s *Storage) writeEvents(ctx context.Context, tx db.Tx, events []domain.Event) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", ev.Topic, err)
		}
		task := &repository.OutboxTask{
			Topic:      ev.Topic,
			MessageKey: ev.Key,
			Payload:    payload,
		}
		if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
			return err
		}
	}
	return nil
}

func notFoundOr(err error, entity, ref, msg string) error {
	if errors.Is(err, repository.ErrObjectNotFound) {
		return &domain.NotFoundError{Entity: entity, Ref: ref}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
