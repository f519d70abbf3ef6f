package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func newTestProductService(repo *stubProductRepo) *ProductService {
	svc := NewProductService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestCreateProduct_StampsCreatedAt(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)

	p, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name:     "Apples",
		Category: "Fruit",
		Price:    89.99,
		Stock:    100,
		Image:    "/photo/apples.jpg",
	})
	if err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected stored product to carry an id")
	}
	if !p.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", p.CreatedAt)
	}
	if p.Price != 89.99 || p.Stock != 100 || p.Image != "/photo/apples.jpg" {
		t.Fatalf("fields not stored as given: %+v", p)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)

	inputs := []ports.CreateProductInput{
		{Name: "  ", Price: 1},
		{Name: "Milk", Price: -1},
		{Name: "Milk", Stock: -5},
	}
	for i, in := range inputs {
		if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("invalid products must not be stored")
	}
}

func TestCreateProduct_RepoError(t *testing.T) {
	repo := newStubProductRepo()
	repo.createErr = errors.New("db down")
	svc := newTestProductService(repo)

	if _, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{Name: "Milk"}); err == nil {
		t.Fatalf("expected error from repository")
	}
}

func TestUpdateProduct_MergesPatch(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)

	created, _ := svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name: "Milk", Category: "Dairy", Price: 75.5, Stock: 50, Description: "2.5%",
	})

	updated, err := svc.UpdateProduct(context.Background(), created.ID, domain.ProductPatch{
		Price: floatPtr(80),
		Stock: intPtr(0),
	})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	if updated.Price != 80 || updated.Stock != 0 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "Milk" || updated.Category != "Dairy" || updated.Description != "2.5%" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateProduct_LastWriteWins(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)
	created, _ := svc.CreateProduct(context.Background(), ports.CreateProductInput{Name: "Milk"})

	_, _ = svc.UpdateProduct(context.Background(), created.ID, domain.ProductPatch{Name: strPtr("Milk A")})
	_, _ = svc.UpdateProduct(context.Background(), created.ID, domain.ProductPatch{Name: strPtr("Milk B")})

	if got := repo.byID[created.ID].Name; got != "Milk B" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestUpdateProduct_Validation(t *testing.T) {
	svc := newTestProductService(newStubProductRepo())

	if _, err := svc.UpdateProduct(context.Background(), "p001", domain.ProductPatch{Price: floatPtr(-0.01)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateProduct(context.Background(), "p001", domain.ProductPatch{Name: strPtr("")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newTestProductService(newStubProductRepo())

	if _, err := svc.UpdateProduct(context.Background(), "missing", domain.ProductPatch{Stock: intPtr(1)}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)
	created, _ := svc.CreateProduct(context.Background(), ports.CreateProductInput{Name: "Milk"})

	if err := svc.DeleteProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected product to be removed")
	}
	if err := svc.DeleteProduct(context.Background(), created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(repo)
	for _, name := range []string{"A", "B", "C"} {
		_, _ = svc.CreateProduct(context.Background(), ports.CreateProductInput{Name: name})
	}

	list, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 products, got %d", len(list))
	}
}
