package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/orders/domain"
	"storefront/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderService is the service surface the handler needs.
type OrderService interface {
	GetShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error)
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
}

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	service OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// Register mounts the order routes.
func (h *OrderHandler) Register(r fiber.Router) {
	r.Get("/shipping-methods", h.GetShippingMethods)
	r.Post("/orders", h.PlaceOrder)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/:id", h.GetOrder)
	r.Patch("/orders/:id/status", h.UpdateStatus)
	r.Post("/orders/:id/cancel", h.CancelOrder)
}

// GetShippingMethods godoc
// @Summary List shipping methods
// @Tags orders
// @Produce json
// @Success 200 {array} domain.ShippingMethod
// @Router /shipping-methods [get]
func (h *OrderHandler) GetShippingMethods(c *fiber.Ctx) error {
	methods, err := h.service.GetShippingMethods(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(methods)
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Prices the items and stores a pending order for the caller.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.PlaceOrderRequest true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} server.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req domain.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	req.UserID = server.UserID(c)

	order, err := h.service.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(order)
}

// ListOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), server.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(orders)
}

// GetOrder godoc
// @Summary Get Order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} server.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// UpdateStatus godoc
// @Summary Change the order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} domain.Order
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil || !req.Status.Valid() {
		return server.Fail(c, http.StatusBadRequest, "invalid_status", server.ActionBack)
	}

	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// CancelOrder godoc
// @Summary Cancel an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 409 {object} server.ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// fail maps service errors onto responses that always offer a next step.
func (h *OrderHandler) fail(c *fiber.Ctx, err error) error {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		return server.FailFields(c, "invalid_order", fe)
	case errors.Is(err, service.ErrEmptyOrder):
		return server.Fail(c, http.StatusBadRequest, "empty_cart", server.ActionBrowseProducts)
	case errors.Is(err, service.ErrUnknownShippingMethod):
		return server.Fail(c, http.StatusBadRequest, "select_shipping_method", server.ActionBack)
	case errors.Is(err, service.ErrUnknownPaymentMethod):
		return server.Fail(c, http.StatusBadRequest, "select_payment_method", server.ActionChangePaymentMethod)
	case errors.Is(err, service.ErrOrderNotFound):
		return server.Fail(c, http.StatusNotFound, "order_not_found", server.ActionBack, server.ActionBrowseProducts)
	case errors.Is(err, service.ErrInvalidTransition):
		return server.Fail(c, http.StatusConflict, "invalid_status_transition", server.ActionBack)
	}

	logger.Get().Error("Order request failed",
		zap.String("ray_id", server.RayID(c)),
		zap.String("order_id", c.Params("id")),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong, server.ActionRetry, server.ActionContactSupport)
}
