package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin makes sure an admin account with the given email exists.
// An existing account is left untouched.
func SeedAdmin(ctx context.Context, database DB, email, password string, logger *zap.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		logger.Info("admin seed skipped, credentials not configured")
		return nil
	}

	var count int
	err := database.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE lower(email) = $1", email).Scan(&count)
	if err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		logger.Debug("admin user already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = database.Exec(ctx, `
        INSERT INTO users (id, email, name, role, password_hash, created_at)
        VALUES ($1, $2, $3, 'admin', $4, now())
    `, uuid.NewString(), email, "Administrator", string(hash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	logger.Info("admin user created", zap.String("email", email))
	return nil
}
