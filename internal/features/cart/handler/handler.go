package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/cart/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Cart is the cart surface the handler needs.
type Cart interface {
	Items(ctx context.Context) ([]domain.CartItem, error)
	Add(ctx context.Context, item domain.CartItem) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, line domain.Line, qty int) ([]domain.CartItem, error)
	Remove(ctx context.Context, line domain.Line) ([]domain.CartItem, error)
	Clear(ctx context.Context) error
}

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	cart Cart
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart Cart) *CartHandler {
	return &CartHandler{cart: cart}
}

// CartResponse is the cart with its derived figures.
type CartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Count    int               `json:"count"`
}

// QuantityRequest is the body of a quantity change.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Register mounts the cart routes.
func (h *CartHandler) Register(r fiber.Router) {
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/:productId", h.UpdateQuantity)
	r.Delete("/cart/items/:productId", h.RemoveItem)
	r.Delete("/cart", h.ClearCart)
}

// GetCart godoc
// @Summary Get the cart
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	items, err := h.cart.Items(c.UserContext())
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(newCartResponse(items))
}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Adding a product already in the cart with the same color and size raises its quantity.
// @Tags cart
// @Accept json
// @Produce json
// @Param item body domain.CartItem true "Item"
// @Success 200 {object} CartResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var item domain.CartItem
	if err := c.BodyParser(&item); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	items, err := h.cart.Add(c.UserContext(), item)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return server.FailFields(c, "invalid_cart_item", fe)
		}
		return h.internal(c, err)
	}
	return c.JSON(newCartResponse(items))
}

// UpdateQuantity godoc
// @Summary Change the quantity of a cart line
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param color query string false "Color"
// @Param size query string false "Size"
// @Param quantity body QuantityRequest true "Quantity; zero removes the line"
// @Success 200 {object} CartResponse
// @Router /cart/items/{productId} [patch]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	items, err := h.cart.UpdateQuantity(c.UserContext(), lineOf(c), req.Quantity)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(newCartResponse(items))
}

// RemoveItem godoc
// @Summary Remove a cart line
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Param color query string false "Color"
// @Param size query string false "Size"
// @Success 200 {object} CartResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	items, err := h.cart.Remove(c.UserContext(), lineOf(c))
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(newCartResponse(items))
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.cart.Clear(c.UserContext()); err != nil {
		return h.internal(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func lineOf(c *fiber.Ctx) domain.Line {
	return domain.Line{ProductID: c.Params("productId"), Color: c.Query("color"), Size: c.Query("size")}
}

func newCartResponse(items []domain.CartItem) CartResponse {
	return CartResponse{Items: items, Subtotal: domain.Subtotal(items), Count: domain.Count(items)}
}

func (h *CartHandler) internal(c *fiber.Ctx, err error) error {
	logger.Get().Error("Cart request failed", zap.String("ray_id", server.RayID(c)), zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
}
