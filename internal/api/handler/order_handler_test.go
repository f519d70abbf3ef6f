package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

func TestOrderHandler_Create_PurchaserFromToken(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller domain.Identity, in ports.CreateOrderInput) (*domain.Order, error) {
			if caller.Username != "alice" {
				t.Fatalf("expected purchaser from token, got %q", caller.Username)
			}
			if len(in.Items) != 1 || in.Items[0].ProductID != "p1" || in.Items[0].Quantity != 2 {
				t.Fatalf("unexpected items: %+v", in.Items)
			}
			items := []domain.LineItem{{ProductID: "p1", Quantity: 2}}
			return &domain.Order{ID: "o1", Purchaser: caller.Username, Items: items, Status: domain.StatusPending}, nil
		},
	}
	handler := NewOrderHandler(stub)

	body := `{"purchaser":"mallory","items":[{"product_id":"p1","quantity":2}]}`
	c, rec := newJSONContext(http.MethodPost, "/api/orders", body)
	withIdentity(c, "alice", domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["purchaser"] != "alice" || resp["status"] != "pending" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_Create_Validation(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller domain.Identity, in ports.CreateOrderInput) (*domain.Order, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	bodies := []string{
		`{"items":[]}`,
		`{"items":[{"product_id":"","quantity":1}]}`,
		`{"items":[{"product_id":"p1","quantity":0}]}`,
		`[`,
	}
	for _, body := range bodies {
		c, _ := newJSONContext(http.MethodPost, "/api/orders", body)
		withIdentity(c, "alice", domain.RoleUser)
		assertHTTPError(t, handler.Create(c), http.StatusBadRequest)
	}
}

func TestOrderHandler_MissingIdentity(t *testing.T) {
	stub := &stubOrderService{}
	handler := NewOrderHandler(stub)

	c, _ := newJSONContext(http.MethodGet, "/api/orders", "")
	assertHTTPError(t, handler.List(c), http.StatusUnauthorized)

	c, _ = newJSONContext(http.MethodPost, "/api/orders", `{"items":[{"product_id":"p1","quantity":1}]}`)
	assertHTTPError(t, handler.Create(c), http.StatusUnauthorized)
}

func TestOrderHandler_List_PassesCaller(t *testing.T) {
	stub := &stubOrderService{
		listFn: func(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
			if caller.Username != "bob" || caller.Role != domain.RoleManager {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return []*domain.Order{
				{ID: "o1", Purchaser: "alice", Status: domain.StatusPending},
				{ID: "o2", Purchaser: "bob", Status: domain.StatusPending},
			}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/orders", "")
	withIdentity(c, "bob", domain.RoleManager)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp))
	}
	if items, ok := resp[0]["items"].([]any); !ok || len(items) != 0 {
		t.Fatalf("items must render as an empty array, got %v", resp[0]["items"])
	}
}
