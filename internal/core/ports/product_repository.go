package ports

import (
	"context"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// FindByID returns domain.ErrProductNotFound when no such product exists.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	// Delete removes the product permanently. Returns
	// domain.ErrProductNotFound when the id does not exist, so a second
	// delete of the same id is observable as not-found rather than success.
	Delete(ctx context.Context, id string) error
}
