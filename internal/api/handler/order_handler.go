package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productstore/store-api/internal/api/metrics"
	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /api/orders. Admins and managers see every order, other
// roles only their own.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders))
}

// Create handles POST /api/orders. The purchaser is the token's username.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order lines"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(domain.ErrValidation)
	}

	order, err := h.service.CreateOrder(c.Request().Context(), caller, toCreateOrderInput(req))
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderLineItems.Observe(float64(len(order.Items)))
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}
