package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/gemvault/storefront/internal/domain"
)

type userMap map[string]*domain.User

func (m userMap) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m[email]; ok {
		return u, nil
	}
	return nil, &domain.NotFoundError{Entity: "user", Ref: email}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "storefront", time.Hour)
	user := &domain.User{ID: "u-1", Email: "admin@example.com", Role: domain.RoleAdmin}

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", "storefront", time.Hour)
	user := &domain.User{ID: "u-1", Role: domain.RoleCustomer}
	token, _, err := svc.Issue(user)
	require.NoError(t, err)

	other := NewTokenService("other-secret", "storefront", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewTokenService("secret", "storefront", time.Hour)
	later.timeNow = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestLoginService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := userMap{
		"admin@example.com": {ID: "a-1", Email: "admin@example.com", Role: domain.RoleAdmin, PasswordHash: string(hash)},
		"cust@example.com":  {ID: "c-1", Email: "cust@example.com", Role: domain.RoleCustomer, PasswordHash: string(hash)},
	}
	svc := NewLoginService(users, NewTokenService("secret", "storefront", time.Hour))
	ctx := context.Background()

	res, err := svc.Login(ctx, "admin@example.com", "s3cret", domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a-1", res.User.ID)

	tests := []struct {
		name          string
		email         string
		password      string
		wantForbidden bool
	}{
		{"wrong password", "admin@example.com", "nope", false},
		{"unknown user", "ghost@example.com", "s3cret", false},
		{"wrong role", "cust@example.com", "s3cret", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.email, tc.password, domain.RoleAdmin)
			var ae *domain.AuthenticationError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tc.wantForbidden, ae.Forbidden)
		})
	}

	_, err = svc.Login(ctx, "", "", domain.RoleAdmin)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}
