package ports

import (
	"context"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Login returns a bearer token on success. All failures surface as
	// domain.ErrInvalidCredentials so callers cannot distinguish a missing
	// user from a wrong password.
	Login(ctx context.Context, username, password string) (string, error)
}
