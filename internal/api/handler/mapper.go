package handler

import (
	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateProductInput(req createProductRequest) ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toProductPatch(req updateProductRequest) domain.ProductPatch {
	return domain.ProductPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toCreateOrderInput(req createOrderRequest) ports.CreateOrderInput {
	items := make([]ports.LineItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = ports.LineItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return ports.CreateOrderInput{Items: items}
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toProductResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt.UTC(),
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt.UTC()
		resp.UpdatedAt = &updated
	}
	return resp
}

func toProductListResponse(products []*domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return orderResponse{
		ID:        o.ID,
		Purchaser: o.Purchaser,
		Items:     items,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

func toOrderListResponse(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}
