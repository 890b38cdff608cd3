package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gitlab.com/gemvault/storefront/internal/domain"
)

var errBadCredentials = &domain.AuthenticationError{Message: "invalid email or password"}

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type LoginService struct {
	users  UserFinder
	tokens *TokenService
}

func NewLoginService(users UserFinder, tokens *TokenService) *LoginService {
	return &LoginService{users: users, tokens: tokens}
}

// Login checks the password and issues a token. Only users holding role
// may log in through this service.
func (s *LoginService) Login(ctx context.Context, email, password string, role domain.Role) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "email and password are required"}
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	if user.Role != role {
		return nil, &domain.AuthenticationError{Forbidden: true, Message: "insufficient role"}
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
