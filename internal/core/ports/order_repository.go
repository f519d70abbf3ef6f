package ports

import (
	"context"

	"github.com/productstore/store-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// List returns orders placed by purchaser; an empty purchaser means all orders.
	List(ctx context.Context, purchaser string) ([]*domain.Order, error)
}
