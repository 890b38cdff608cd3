package postgresql

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/repository"
)

const (
	uniqueViolation   = "23505"
	activeReturnIndex = "returns_one_active_per_order_idx"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards in user supplied fragments.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrObjectNotFound
	}
	return err
}

// activeReturnConflict reports a second open return on an order, caught by
// the partial unique index when a write races the storage level check.
func activeReturnConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeReturnIndex {
		return domain.ErrActiveReturnExists
	}
	return err
}
