package ports

import (
	"context"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// UserRepository defines the interface for user credential persistence.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns domain.ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
