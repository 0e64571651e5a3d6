package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

// ProductService implements catalog use-cases and their access policy: public
// reads, seller-gated creation, ownership-gated mutation. Checks run in a
// fixed order on mutations — role, then existence, then ownership — so a
// wrong-owner probe of a missing id observes not-found, not forbidden.
type ProductService struct {
	repo   ports.ProductRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, audit ports.AuditSink, logger zerolog.Logger) *ProductService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &ProductService{repo: repo, audit: audit, logger: logger}
}

// Create persists a new product owned by the calling seller.
func (s *ProductService) Create(ctx context.Context, identity *domain.Identity, input ports.CreateProductInput) (*domain.Product, error) {
	if err := s.requireSeller(identity, domain.ActionCreateProduct, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Owner: domain.Owner{
			UserID:   identity.UserID,
			Username: identity.Username,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", identity.Username).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("owner", identity.Username).Msg("product created")
	s.record(identity.Username, domain.ActionCreateProduct, created.ID, domain.DecisionAllowed, "")
	return created, nil
}

// Get returns a single product. Public.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns the whole catalog. Public.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// ListMine returns the calling seller's own products.
func (s *ProductService) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Product, error) {
	if err := s.requireSeller(identity, domain.ActionListOwn, ""); err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, identity.UserID)
}

// Update applies the mutable fields (name, price) to a product owned by the
// caller. Owner, description, and id are never altered here.
func (s *ProductService) Update(ctx context.Context, identity *domain.Identity, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if err := s.requireSeller(identity, domain.ActionUpdateProduct, id); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !existing.OwnedBy(identity.UserID) {
		s.record(identity.Username, domain.ActionUpdateProduct, id, domain.DecisionDenied, "not owner")
		return nil, domain.ErrForbidden
	}

	existing.Name = input.Name
	existing.Price = input.Price
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, err
	}

	s.record(identity.Username, domain.ActionUpdateProduct, id, domain.DecisionAllowed, "")
	return existing, nil
}

// Delete removes a product owned by the caller. The delete path is the one
// operation that distinguishes absent authentication from an authorization
// failure.
func (s *ProductService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.requireSeller(identity, domain.ActionDeleteProduct, id); err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !existing.OwnedBy(identity.UserID) {
		s.record(identity.Username, domain.ActionDeleteProduct, id, domain.DecisionDenied, "not owner")
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id).Str("owner", identity.Username).Msg("product deleted")
	s.record(identity.Username, domain.ActionDeleteProduct, id, domain.DecisionAllowed, "")
	return nil
}

func (s *ProductService) requireSeller(identity *domain.Identity, action, productID string) error {
	if identity == nil {
		s.record("", action, productID, domain.DecisionDenied, "no identity")
		return domain.ErrForbidden
	}
	if identity.Role != domain.RoleSeller {
		s.record(identity.Username, action, productID, domain.DecisionDenied, "not a seller")
		return domain.ErrForbidden
	}
	return nil
}

func (s *ProductService) record(actor, action, productID, decision, reason string) {
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    action,
		ProductID: productID,
		Decision:  decision,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
