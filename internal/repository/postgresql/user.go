package postgresql

import (
	"context"
	"fmt"

	"gitlab.com/gemvault/storefront/internal/db"
	"gitlab.com/gemvault/storefront/internal/repository"
	"gitlab.com/gemvault/storefront/internal/storage"
)

const userColumns = `id, email, name, phone, role, password_hash, created_at`

type UserRepo struct {
	db db.DB
}

func NewUserRepo(db db.DB) storage.UserRepository {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	var user repository.User
	if err := r.db.Get(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	var user repository.User
	if err := r.db.Get(ctx, &user, "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepo) ListByNamePrefix(ctx context.Context, prefix string, limit int) ([]*repository.User, error) {
	var users []*repository.User
	err := r.db.Select(ctx, &users, `
        SELECT `+userColumns+` FROM users
        WHERE lower(name) LIKE lower($1) || '%' ESCAPE '\'
        ORDER BY name
        LIMIT $2
    `, escapeLike(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("list users by name prefix: %w", err)
	}
	return users, nil
}

func (r *UserRepo) ListByIDSuffix(ctx context.Context, suffix string, limit int) ([]*repository.User, error) {
	var users []*repository.User
	err := r.db.Select(ctx, &users, `
        SELECT `+userColumns+` FROM users
        WHERE lower(id) LIKE '%' || lower($1) ESCAPE '\'
        ORDER BY created_at DESC
        LIMIT $2
    `, escapeLike(suffix), limit)
	if err != nil {
		return nil, fmt.Errorf("list users by id suffix: %w", err)
	}
	return users, nil
}
