package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	nextID   int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	copy := cloneProduct(p)
	copy.ID = fmt.Sprintf("p%d", r.nextID)
	r.products[copy.ID] = cloneProduct(copy)
	return cloneProduct(copy), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.Owner.UserID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

var (
	alice = &domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleSeller}
	bob   = &domain.Identity{UserID: "u2", Username: "bob", Role: domain.RoleSeller}
	buyer = &domain.Identity{UserID: "u3", Username: "carl", Role: domain.RoleBuyer}
)

func newProductService(repo ports.ProductRepository) *ProductService {
	return NewProductService(repo, nil, zerolog.Nop())
}

func seedProduct(t *testing.T, svc *ProductService, owner *domain.Identity) *domain.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), owner, ports.CreateProductInput{
		Name:        "Widget",
		Description: "a widget",
		Price:       9.99,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestProductService_Create_OwnerInjected(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	p := seedProduct(t, svc, alice)
	if p.Owner.Username != "alice" || p.Owner.UserID != "u1" {
		t.Fatalf("owner not injected: %+v", p.Owner)
	}
	if p.ID == "" {
		t.Fatalf("expected assigned id")
	}
}

func TestProductService_Create_RoleGate(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	input := ports.CreateProductInput{Name: "Widget", Price: 1}
	if _, err := svc.Create(context.Background(), buyer, input); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := svc.Create(context.Background(), nil, input); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
}

func TestProductService_Update_MutatesOnlyNameAndPrice(t *testing.T) {
	repo := newStubProductRepo()
	svc := newProductService(repo)

	p := seedProduct(t, svc, alice)

	updated, err := svc.Update(context.Background(), alice, p.ID, ports.UpdateProductInput{Name: "Gadget", Price: 19.99})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Gadget" || updated.Price != 19.99 {
		t.Fatalf("mutable fields not applied: %+v", updated)
	}
	if updated.Description != "a widget" {
		t.Fatalf("description must not change on update")
	}
	if updated.Owner != p.Owner || updated.ID != p.ID {
		t.Fatalf("owner/id must not change on update")
	}
}

func TestProductService_Update_OwnershipIsolation(t *testing.T) {
	repo := newStubProductRepo()
	svc := newProductService(repo)

	p := seedProduct(t, svc, alice)

	if _, err := svc.Update(context.Background(), bob, p.ID, ports.UpdateProductInput{Name: "Stolen", Price: 1}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	// The product must be untouched after the denial.
	stored, err := repo.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("find after denied update: %v", err)
	}
	if stored.Name != "Widget" || stored.Price != 9.99 {
		t.Fatalf("product changed despite denial: %+v", stored)
	}
}

func TestProductService_Update_NotFoundBeforeOwnership(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	// A seller probing a nonexistent id observes not-found, not forbidden.
	if _, err := svc.Update(context.Background(), bob, "missing", ports.UpdateProductInput{Name: "x", Price: 1}); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Delete_Idempotence(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	p := seedProduct(t, svc, alice)

	if err := svc.Delete(context.Background(), alice, p.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), alice, p.ID); err != domain.ErrProductNotFound {
		t.Fatalf("second delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Delete_Policy(t *testing.T) {
	repo := newStubProductRepo()
	svc := newProductService(repo)

	p := seedProduct(t, svc, alice)

	if err := svc.Delete(context.Background(), nil, p.ID); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for anonymous delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), buyer, p.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for buyer delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), bob, p.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}

	if _, err := repo.FindByID(context.Background(), p.ID); err != nil {
		t.Fatalf("product should still exist after denied deletes: %v", err)
	}
}

func TestProductService_ListMine_Scoping(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	seedProduct(t, svc, alice)
	seedProduct(t, svc, alice)
	seedProduct(t, svc, bob)

	mine, err := svc.ListMine(context.Background(), alice)
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 products for alice, got %d", len(mine))
	}
	for _, p := range mine {
		if p.Owner.UserID != alice.UserID {
			t.Fatalf("foreign product in alice's listing: %+v", p)
		}
	}

	if _, err := svc.ListMine(context.Background(), buyer); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := svc.ListMine(context.Background(), nil); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
}

func TestProductService_PublicReads(t *testing.T) {
	svc := newProductService(newStubProductRepo())

	p := seedProduct(t, svc, alice)

	// No identity required for reads.
	got, err := svc.Get(context.Background(), p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("public get failed: %v", err)
	}
	all, err := svc.List(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("public list failed: %v (%d items)", err, len(all))
	}

	if _, err := svc.Get(context.Background(), "missing"); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_AuditTrail(t *testing.T) {
	sink := &recordingSink{}
	svc := NewProductService(newStubProductRepo(), sink, zerolog.Nop())

	p, err := svc.Create(context.Background(), alice, ports.CreateProductInput{Name: "Widget", Price: 9.99})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), bob, p.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	events := sink.all()
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(events))
	}
	if events[0].Action != domain.ActionCreateProduct || events[0].Decision != domain.DecisionAllowed {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Action != domain.ActionDeleteProduct || events[1].Decision != domain.DecisionDenied || events[1].Actor != "bob" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}
