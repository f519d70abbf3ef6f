package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/productstore/store-api/internal/api/middleware"
	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrInvalidToken
}

type stubProductService struct {
	listFn   func(ctx context.Context) ([]*domain.Product, error)
	createFn func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProductService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, in)
}

func (s *stubProductService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubOrderService struct {
	listFn   func(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
	createFn func(ctx context.Context, caller domain.Identity, in ports.CreateOrderInput) (*domain.Order, error)
}

func (s *stubOrderService) ListOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
	return s.listFn(ctx, caller)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, caller domain.Identity, in ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, caller, in)
}

// newJSONContext builds an echo context with the validator wired, as the
// router does.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIdentity(c echo.Context, username string, role domain.Role) echo.Context {
	middleware.SetIdentity(c, domain.Identity{Username: username, Role: role})
	return c
}
