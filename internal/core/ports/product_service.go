package ports

import (
	"context"

	"github.com/productstore/store-api/internal/core/domain"
)

// CreateProductInput carries the fields of a new catalog record.
type CreateProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
	Image       string
}

// ProductService defines use-case operations for the catalog. Role checks
// happen in the transport layer through domain.Policy.
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
