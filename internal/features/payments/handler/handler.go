package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/payments/domain"
	"storefront/internal/features/payments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentService is the service surface the handler needs.
type PaymentService interface {
	GetPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	ProcessPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResponse, error)
	GetTransactions(ctx context.Context) ([]domain.PaymentResponse, error)
	GetSavedCards(ctx context.Context) ([]domain.PaymentCard, error)
	SaveCard(ctx context.Context, req domain.NewCardRequest) (*domain.PaymentCard, error)
	DeleteCard(ctx context.Context, id string) error
}

// PaymentHandler handles HTTP requests for payments and saved cards.
type PaymentHandler struct {
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(s PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// DeclinedResponse is returned with 402 when the gateway declines a charge.
type DeclinedResponse struct {
	server.ErrorResponse
	Transaction domain.PaymentResponse `json:"transaction"`
}

// Register mounts the payment routes.
func (h *PaymentHandler) Register(r fiber.Router) {
	r.Get("/payment-methods", h.GetPaymentMethods)
	r.Post("/payments", h.ProcessPayment)
	r.Get("/payments/transactions", h.GetTransactions)
	r.Get("/cards", h.GetSavedCards)
	r.Post("/cards", h.SaveCard)
	r.Delete("/cards/:id", h.DeleteCard)
}

// GetPaymentMethods godoc
// @Summary List payment methods
// @Tags payments
// @Produce json
// @Success 200 {array} domain.PaymentMethod
// @Router /payment-methods [get]
func (h *PaymentHandler) GetPaymentMethods(c *fiber.Ctx) error {
	methods, err := h.service.GetPaymentMethods(c.UserContext())
	if err != nil {
		return h.internal(c, "Failed to list payment methods", err)
	}
	return c.JSON(methods)
}

// ProcessPayment godoc
// @Summary Charge a payment
// @Description Declines are answered with 402 and offer retry or another payment method.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body domain.PaymentRequest true "Payment"
// @Success 200 {object} domain.PaymentResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 402 {object} DeclinedResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) ProcessPayment(c *fiber.Ctx) error {
	var req domain.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	resp, err := h.service.ProcessPayment(c.UserContext(), req)
	if err != nil {
		var fe validation.FieldErrors
		switch {
		case errors.As(err, &fe):
			return server.FailFields(c, "invalid_payment", fe)
		case errors.Is(err, service.ErrUnknownPaymentMethod):
			return server.Fail(c, http.StatusBadRequest, "unknown_payment_method", server.ActionChangePaymentMethod)
		case errors.Is(err, service.ErrCardNotFound):
			return server.Fail(c, http.StatusNotFound, "card_not_found", server.ActionChangePaymentMethod)
		}
		return h.internal(c, "Failed to process payment", err)
	}

	if !resp.Approved() {
		return c.Status(http.StatusPaymentRequired).JSON(DeclinedResponse{
			ErrorResponse: server.ErrorResponse{
				Message: resp.FailureReason,
				RayID:   server.RayID(c),
				Actions: []string{server.ActionRetry, server.ActionChangePaymentMethod},
			},
			Transaction: *resp,
		})
	}
	return c.JSON(resp)
}

// GetTransactions godoc
// @Summary List recorded transactions
// @Tags payments
// @Produce json
// @Success 200 {array} domain.PaymentResponse
// @Router /payments/transactions [get]
func (h *PaymentHandler) GetTransactions(c *fiber.Ctx) error {
	txs, err := h.service.GetTransactions(c.UserContext())
	if err != nil {
		return h.internal(c, "Failed to list transactions", err)
	}
	return c.JSON(txs)
}

// GetSavedCards godoc
// @Summary List saved cards
// @Tags cards
// @Produce json
// @Success 200 {array} domain.PaymentCard
// @Router /cards [get]
func (h *PaymentHandler) GetSavedCards(c *fiber.Ctx) error {
	cards, err := h.service.GetSavedCards(c.UserContext())
	if err != nil {
		return h.internal(c, "Failed to list cards", err)
	}
	return c.JSON(cards)
}

// SaveCard godoc
// @Summary Save a card
// @Tags cards
// @Accept json
// @Produce json
// @Param card body domain.NewCardRequest true "Card form"
// @Success 201 {object} domain.PaymentCard
// @Failure 400 {object} server.ErrorResponse
// @Router /cards [post]
func (h *PaymentHandler) SaveCard(c *fiber.Ctx) error {
	var req domain.NewCardRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	card, err := h.service.SaveCard(c.UserContext(), req)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return server.FailFields(c, "invalid_card", fe)
		}
		return h.internal(c, "Failed to save card", err)
	}
	return c.Status(http.StatusCreated).JSON(card)
}

// DeleteCard godoc
// @Summary Delete a saved card
// @Tags cards
// @Param id path string true "Card ID"
// @Success 204
// @Router /cards/{id} [delete]
func (h *PaymentHandler) DeleteCard(c *fiber.Ctx) error {
	if err := h.service.DeleteCard(c.UserContext(), c.Params("id")); err != nil {
		return h.internal(c, "Failed to delete card", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *PaymentHandler) internal(c *fiber.Ctx, msg string, err error) error {
	logger.Get().Error(msg, zap.String("ray_id", server.RayID(c)), zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
}
