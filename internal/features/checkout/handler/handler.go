package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/checkout/domain"
	"storefront/internal/features/checkout/service"
	orderdomain "storefront/internal/features/orders/domain"
	paymentdomain "storefront/internal/features/payments/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Sessions is the session registry the handler needs.
type Sessions interface {
	Create(ctx context.Context, userID string) (*service.Session, error)
	Get(id string) (*service.Session, error)
	Discard(id string)
}

// CheckoutHandler exposes checkout sessions over HTTP.
type CheckoutHandler struct {
	sessions Sessions
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(sessions Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// SessionResponse is a session snapshot with its current totals.
type SessionResponse struct {
	domain.View
	Totals orderdomain.Totals `json:"totals"`
}

// AddressRequest selects a saved address.
type AddressRequest struct {
	AddressID string `json:"addressId"`
}

// MethodRequest selects a shipping or payment method.
type MethodRequest struct {
	MethodID string `json:"methodId"`
	CardID   string `json:"cardId,omitempty"`
}

// DeclinedResponse is returned with 402 when the charge is declined.
type DeclinedResponse struct {
	server.ErrorResponse
	Transaction paymentdomain.PaymentResponse `json:"transaction"`
}

// Register mounts the checkout routes.
func (h *CheckoutHandler) Register(r fiber.Router) {
	g := r.Group("/checkout/sessions")
	g.Post("/", h.CreateSession)
	g.Get("/:id", h.GetSession)
	g.Delete("/:id", h.DiscardSession)
	g.Put("/:id/address", h.SelectAddress)
	g.Post("/:id/next", h.Next)
	g.Post("/:id/back", h.Back)
	g.Put("/:id/shipping-method", h.SelectShippingMethod)
	g.Put("/:id/payment-method", h.SelectPaymentMethod)
	g.Post("/:id/orders", h.PlaceOrder)
}

// CreateSession godoc
// @Summary Start a checkout
// @Description Opens a session at the shipping step with the default address preselected.
// @Tags checkout
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /checkout/sessions [post]
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	s, err := h.sessions.Create(c.UserContext(), server.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, http.StatusCreated, s)
}

// GetSession godoc
// @Summary Get a checkout session
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /checkout/sessions/{id} [get]
func (h *CheckoutHandler) GetSession(c *fiber.Ctx) error {
	return h.with(c, func(s *service.Session) error { return nil })
}

// DiscardSession godoc
// @Summary Abandon a checkout session
// @Tags checkout
// @Param id path string true "Session ID"
// @Success 204
// @Router /checkout/sessions/{id} [delete]
func (h *CheckoutHandler) DiscardSession(c *fiber.Ctx) error {
	if _, err := h.session(c); err != nil {
		return h.fail(c, err)
	}
	h.sessions.Discard(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SelectAddress godoc
// @Summary Choose the shipping address
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param address body AddressRequest true "Saved address"
// @Success 200 {object} SessionResponse
// @Router /checkout/sessions/{id}/address [put]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	return h.with(c, func(s *service.Session) error {
		return s.SelectAddress(c.UserContext(), req.AddressID)
	})
}

// Next godoc
// @Summary Continue to confirmation
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /checkout/sessions/{id}/next [post]
func (h *CheckoutHandler) Next(c *fiber.Ctx) error {
	return h.with(c, func(s *service.Session) error { return s.Next() })
}

// Back godoc
// @Summary Return to the shipping step
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Router /checkout/sessions/{id}/back [post]
func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	return h.with(c, func(s *service.Session) error { return s.Back() })
}

// SelectShippingMethod godoc
// @Summary Choose the shipping method
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param method body MethodRequest true "Shipping method"
// @Success 200 {object} SessionResponse
// @Router /checkout/sessions/{id}/shipping-method [put]
func (h *CheckoutHandler) SelectShippingMethod(c *fiber.Ctx) error {
	var req MethodRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	return h.with(c, func(s *service.Session) error { return s.SelectShippingMethod(req.MethodID) })
}

// SelectPaymentMethod godoc
// @Summary Choose the payment method
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param method body MethodRequest true "Payment method and optional saved card"
// @Success 200 {object} SessionResponse
// @Router /checkout/sessions/{id}/payment-method [put]
func (h *CheckoutHandler) SelectPaymentMethod(c *fiber.Ctx) error {
	var req MethodRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	return h.with(c, func(s *service.Session) error { return s.SelectPaymentMethod(req.MethodID, req.CardID) })
}

// PlaceOrder godoc
// @Summary Place the order
// @Description Charges the total unless paying on delivery, then stores the order. A second request while the first is running is rejected.
// @Tags checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 402 {object} DeclinedResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/sessions/{id}/orders [post]
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if _, err := s.PlaceOrder(c.UserContext()); err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, http.StatusCreated, s)
}

// session resolves the path session. Sessions of other users read as missing.
func (h *CheckoutHandler) session(c *fiber.Ctx) (*service.Session, error) {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return nil, err
	}
	if s.UserID() != server.UserID(c) {
		return nil, service.ErrSessionNotFound
	}
	return s, nil
}

func (h *CheckoutHandler) with(c *fiber.Ctx, fn func(*service.Session) error) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := fn(s); err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, http.StatusOK, s)
}

func (h *CheckoutHandler) respond(c *fiber.Ctx, status int, s *service.Session) error {
	totals, err := s.Totals(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(status).JSON(SessionResponse{View: s.View(), Totals: totals})
}

// fail maps checkout errors; the session itself is left as it was.
func (h *CheckoutHandler) fail(c *fiber.Ctx, err error) error {
	var declined *service.PaymentDeclinedError
	if errors.As(err, &declined) {
		return c.Status(http.StatusPaymentRequired).JSON(DeclinedResponse{
			ErrorResponse: server.ErrorResponse{
				Message: paymentdomain.FailureDeclined,
				RayID:   server.RayID(c),
				Actions: []string{server.ActionRetry, server.ActionChangePaymentMethod},
			},
			Transaction: declined.Response,
		})
	}

	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		return server.FailFields(c, "invalid_order", fe)
	case errors.Is(err, service.ErrSessionNotFound):
		return server.Fail(c, http.StatusNotFound, "checkout_session_not_found", server.ActionBack)
	case errors.Is(err, service.ErrAddressRequired):
		return server.FailFields(c, "select_address", map[string]string{"address": validation.ErrRequired.Error()})
	case errors.Is(err, service.ErrShippingMethodRequired):
		return server.FailFields(c, "select_shipping_method", map[string]string{"shippingMethod": validation.ErrRequired.Error()})
	case errors.Is(err, service.ErrPaymentMethodRequired):
		return server.FailFields(c, "select_payment_method", map[string]string{"paymentMethod": validation.ErrRequired.Error()})
	case errors.Is(err, service.ErrAddressNotFound):
		return server.Fail(c, http.StatusNotFound, "address_not_found", server.ActionBack)
	case errors.Is(err, service.ErrUnknownShippingMethod):
		return server.Fail(c, http.StatusBadRequest, "unknown_shipping_method", server.ActionRetry)
	case errors.Is(err, service.ErrUnknownPaymentMethod):
		return server.Fail(c, http.StatusBadRequest, "unknown_payment_method", server.ActionChangePaymentMethod)
	case errors.Is(err, service.ErrEmptyCart):
		return server.Fail(c, http.StatusBadRequest, "empty_cart", server.ActionBrowseProducts)
	case errors.Is(err, service.ErrSubmissionInFlight):
		return server.Fail(c, http.StatusConflict, "order_placement_in_progress", server.ActionRetry)
	case errors.Is(err, service.ErrWrongStep):
		return server.Fail(c, http.StatusConflict, "checkout_step_unavailable", server.ActionBack)
	}

	logger.Get().Error("Checkout request failed",
		zap.String("ray_id", server.RayID(c)),
		zap.String("session_id", c.Params("id")),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong, server.ActionRetry, server.ActionBack)
}
