package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger, now: time.Now}
}

// ListOrders returns every order to roles allowed to see all of them and only
// the caller's own orders to everyone else.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
	purchaser := caller.Username
	if domain.Allowed(domain.OpListAllOrders, caller.Role) {
		purchaser = ""
	}

	orders, err := s.repo.List(ctx, purchaser)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CreateOrder records a pending order for caller. Stock is neither checked
// nor decremented.
func (s *OrderService) CreateOrder(ctx context.Context, caller domain.Identity, input ports.CreateOrderInput) (*domain.Order, error) {
	if caller.Username == "" {
		return nil, domain.ErrMissingToken
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for i, it := range input.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d needs a product_id and a positive quantity", domain.ErrValidation, i)
		}
		items = append(items, domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order := &domain.Order{
		Purchaser: caller.Username,
		Items:     items,
		Status:    domain.StatusPending,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("purchaser", caller.Username).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", created.ID).Str("purchaser", created.Purchaser).Int("items", len(created.Items)).Msg("order created")
	return created, nil
}
