package ports

import (
	"context"

	"github.com/productstore/store-api/internal/core/domain"
)

// LineItemInput is a requested order line.
type LineItemInput struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// CreateOrderInput carries the client-supplied part of an order. The
// purchaser is never part of it; it comes from the caller's identity.
type CreateOrderInput struct {
	Items []LineItemInput
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	ListOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, caller domain.Identity, input CreateOrderInput) (*domain.Order, error)
}
