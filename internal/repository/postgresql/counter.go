package postgresql

import (
	"context"
	"fmt"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/storage"
)

type CounterRepo struct{}

func NewCounterRepo() storage.CounterRepository {
	return &CounterRepo{}
}

func (r *CounterRepo) NextReturnSequenceTx(ctx context.Context, tx db.Tx) (int64, error) {
	var seq int64
	if err := tx.Get(ctx, &seq, "SELECT nextval('return_number_seq')"); err != nil {
		return 0, fmt.Errorf("next return sequence: %w", err)
	}
	return seq, nil
}
