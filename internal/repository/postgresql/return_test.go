package postgresql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.com/gemvault/storefront/internal/db/mocks"
	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
	"gitlab.com/gemvault/storefront/internal/repository/postgresql"
)

func testReturnRow() *repository.Return {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &repository.Return{
		ID:           "ret-1",
		ReturnNumber: "RET-20240115-000001",
		OrderID:      "ord-1",
		UserID:       "usr-1",
		Status:       "requested",
		PickupAWB:    repository.NullString("AWB900"),
		Source:       "website",
		Doc:          json.RawMessage(`{"id":"ret-1"}`),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestReturnRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)
		row := testReturnRow()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			row.ID, row.ReturnNumber, row.OrderID, row.UserID, row.Status, row.PickupAWB,
			row.CourierOrderID, row.Source, row.Doc, row.CreatedAt, row.UpdatedAt,
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		assert.NoError(t, repo.CreateTx(ctx, mockTx, row))
	})

	t.Run("db error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)
		dbErr := errors.New("duplicate key")

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(nil, dbErr)

		assert.Equal(t, dbErr, repo.CreateTx(ctx, mockTx, testReturnRow()))
	})

	t.Run("second open return on order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReturnRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "returns_one_active_per_order_idx"})

		assert.ErrorIs(t, repo.CreateTx(ctx, mockTx, testReturnRow()), domain.ErrActiveReturnExists)
	})
}

func TestReturnRepo_UpdateTx(t *testing.T) {
	ctx := context.Background()
	otherUnique := &pgconn.PgError{Code: "23505", ConstraintName: "returns_return_number_key"}

	tests := []struct {
		name    string
		tag     pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "updated", tag: pgconn.CommandTag("UPDATE 1")},
		{name: "missing row", tag: pgconn.CommandTag("UPDATE 0"), wantErr: repository.ErrObjectNotFound},
		{
			name:    "reopening beside an open return",
			execErr: &pgconn.PgError{Code: "23505", ConstraintName: "returns_one_active_per_order_idx"},
			wantErr: domain.ErrActiveReturnExists,
		},
		{
			name:    "other unique violation passes through",
			execErr: otherUnique,
			wantErr: otherUnique,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockTx := mock_database.NewMockTx(ctrl)
			repo := postgresql.NewReturnRepo(mock_database.NewMockDB(ctrl))
			row := testReturnRow()

			mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
				row.Status, row.PickupAWB, row.CourierOrderID, row.Doc, row.UpdatedAt, row.ID,
			).Return(tc.tag, tc.execErr)

			err := repo.UpdateTx(ctx, mockTx, row)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReturnRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "ret-1").
			DoAndReturn(func(_ context.Context, dest any, _ string, _ ...any) error {
				*dest.(*repository.Return) = *testReturnRow()
				return nil
			})

		got, err := repo.GetByID(ctx, "ret-1")
		require.NoError(t, err)
		assert.Equal(t, "RET-20240115-000001", got.ReturnNumber)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "missing").Return(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestReturnRepo_GetByIDTx_LocksRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewReturnRepo(mock_database.NewMockDB(ctrl))

	mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "ret-1").
		DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
			assert.Contains(t, query, "FOR UPDATE")
			*dest.(*repository.Return) = *testReturnRow()
			return nil
		})

	got, err := repo.GetByIDTx(context.Background(), mockTx, "ret-1")
	require.NoError(t, err)
	assert.Equal(t, "ret-1", got.ID)
}

func TestReturnRepo_ListByStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("with status and limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "approved_refund", 20).
			DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
				assert.Contains(t, query, "WHERE status = $1")
				assert.Contains(t, query, "LIMIT $2")
				*dest.(*[]*repository.Return) = []*repository.Return{testReturnRow()}
				return nil
			})

		got, err := repo.ListByStatus(ctx, "approved_refund", 20)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("all statuses", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReturnRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), 5).
			DoAndReturn(func(_ context.Context, _ any, query string, _ ...any) error {
				assert.NotContains(t, query, "WHERE")
				assert.Contains(t, query, "LIMIT $1")
				return nil
			})

		_, err := repo.ListByStatus(ctx, "", 5)
		assert.NoError(t, err)
	})
}
