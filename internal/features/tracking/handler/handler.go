package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/features/tracking/domain"
	"storefront/internal/features/tracking/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingProvider is the tracking source the handler serves.
type TrackingProvider interface {
	GetTracking(ctx context.Context, orderID string) (*domain.OrderTracking, error)
}

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	provider TrackingProvider
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(provider TrackingProvider) *TrackingHandler {
	return &TrackingHandler{provider: provider}
}

// Register mounts the tracking routes.
func (h *TrackingHandler) Register(r fiber.Router) {
	r.Get("/tracking/:orderId", h.GetTracking)
}

// GetTracking godoc
// @Summary Get order tracking
// @Description Returns the fulfilment timeline of an order with its progress, carrier and delivery window.
// @Tags tracking
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} domain.OrderTracking
// @Failure 404 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /tracking/{orderId} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	orderID := c.Params("orderId")

	tracking, err := h.provider.GetTracking(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, ports.ErrTrackingNotFound) {
			return server.Fail(c, http.StatusNotFound, "tracking_not_found", server.ActionRetry, server.ActionBack)
		}

		logger.Get().Error("Failed to get tracking",
			zap.String("order_id", orderID),
			zap.String("ray_id", server.RayID(c)),
			zap.Error(err),
		)
		return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong, server.ActionRetry, server.ActionBack)
	}

	return c.JSON(tracking)
}
