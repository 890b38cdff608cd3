// Package resolve turns loosely typed admin references into customers and
// orders. Strategies run from most to least precise and the first one that
// matches anything decides the outcome.
package resolve

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/gemvault/storefront/internal/domain"
)

type Kind string

const (
	Found     Kind = "found"
	Ambiguous Kind = "ambiguous"
	NotFound  Kind = "not_found"
)

const (
	StageID          = "id"
	StageEmail       = "email"
	StageNamePrefix  = "name_prefix"
	StageIDSuffix    = "id_suffix"
	StageOrderNumber = "order_number"

	minSuffixLen  = 6
	maxCandidates = 10
)

type Result[T any] struct {
	Kind       Kind
	Stage      string
	Match      T
	Candidates []T
}

type CustomerStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUsersByNamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.User, error)
	FindUsersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.User, error)
}

type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	FindOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	FindOrdersByIDSuffix(ctx context.Context, suffix string, limit int) ([]*domain.Order, error)
}

type stage[T any] struct {
	name string
	run  func(ctx context.Context, ref string) ([]T, error)
}

func run[T any](ctx context.Context, ref string, stages []stage[T]) (Result[T], error) {
	for _, st := range stages {
		matches, err := st.run(ctx, ref)
		if err != nil {
			return Result[T]{}, err
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return Result[T]{Kind: Found, Stage: st.name, Match: matches[0], Candidates: matches}, nil
		default:
			return Result[T]{Kind: Ambiguous, Stage: st.name, Candidates: matches}, nil
		}
	}
	return Result[T]{Kind: NotFound}, nil
}

func one[T any](v T, err error) ([]T, error) {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []T{v}, nil
}

func suffixable(ref string) bool {
	return len(ref) >= minSuffixLen && !strings.ContainsAny(ref, " @")
}

// Customer resolves by exact id, exact email, case-insensitive name prefix
// and finally id suffix.
func Customer(ctx context.Context, store CustomerStore, ref string) (Result[*domain.User], error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Result[*domain.User]{Kind: NotFound}, nil
	}
	return run(ctx, ref, []stage[*domain.User]{
		{StageID, func(ctx context.Context, ref string) ([]*domain.User, error) {
			return one(store.GetUser(ctx, ref))
		}},
		{StageEmail, func(ctx context.Context, ref string) ([]*domain.User, error) {
			if !strings.Contains(ref, "@") {
				return nil, nil
			}
			return one(store.FindUserByEmail(ctx, ref))
		}},
		{StageNamePrefix, func(ctx context.Context, ref string) ([]*domain.User, error) {
			if strings.Contains(ref, "@") {
				return nil, nil
			}
			return store.FindUsersByNamePrefix(ctx, ref, maxCandidates)
		}},
		{StageIDSuffix, func(ctx context.Context, ref string) ([]*domain.User, error) {
			if !suffixable(ref) {
				return nil, nil
			}
			return store.FindUsersByIDSuffix(ctx, ref, maxCandidates)
		}},
	})
}

// Order resolves by exact id, exact order number and finally id suffix.
func Order(ctx context.Context, store OrderStore, ref string) (Result[*domain.Order], error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Result[*domain.Order]{Kind: NotFound}, nil
	}
	return run(ctx, ref, []stage[*domain.Order]{
		{StageID, func(ctx context.Context, ref string) ([]*domain.Order, error) {
			return one(store.GetOrder(ctx, ref))
		}},
		{StageOrderNumber, func(ctx context.Context, ref string) ([]*domain.Order, error) {
			return one(store.FindOrderByNumber(ctx, ref))
		}},
		{StageIDSuffix, func(ctx context.Context, ref string) ([]*domain.Order, error) {
			if !suffixable(ref) {
				return nil, nil
			}
			return store.FindOrdersByIDSuffix(ctx, ref, maxCandidates)
		}},
	})
}
