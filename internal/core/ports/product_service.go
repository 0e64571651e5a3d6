package ports

import (
	"context"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// CreateProductInput carries the caller-supplied fields for a new product.
// The owner is never part of the input; it is resolved from the identity.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
}

// UpdateProductInput carries the mutable fields of a product. Description,
// owner, and id are not updatable.
type UpdateProductInput struct {
	Name  string
	Price float64
}

// ProductService defines catalog use-cases together with their access policy.
// Identity is passed explicitly per call; a nil identity means the request
// carried no usable authentication.
type ProductService interface {
	Create(ctx context.Context, identity *domain.Identity, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Product, error)
	Update(ctx context.Context, identity *domain.Identity, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, identity *domain.Identity, id string) error
}
