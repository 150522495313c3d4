package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/addresses/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AddressBook is the service surface the handler needs.
type AddressBook interface {
	GetSavedAddresses(ctx context.Context) ([]domain.ShippingAddress, error)
	SaveAddress(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error)
	DeleteAddress(ctx context.Context, id string) error
}

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	book AddressBook
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(book AddressBook) *AddressHandler {
	return &AddressHandler{book: book}
}

// Register mounts the address routes.
func (h *AddressHandler) Register(r fiber.Router) {
	r.Get("/addresses", h.ListAddresses)
	r.Post("/addresses", h.SaveAddress)
	r.Delete("/addresses/:id", h.DeleteAddress)
}

// ListAddresses godoc
// @Summary List saved addresses
// @Tags addresses
// @Produce json
// @Success 200 {array} domain.ShippingAddress
// @Failure 500 {object} server.ErrorResponse
// @Router /addresses [get]
func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	list, err := h.book.GetSavedAddresses(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list addresses", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
	}
	return c.JSON(list)
}

// SaveAddress godoc
// @Summary Create or replace an address
// @Description Saving a default address clears the flag on every other address.
// @Tags addresses
// @Accept json
// @Produce json
// @Param address body domain.ShippingAddress true "Address"
// @Success 200 {object} domain.ShippingAddress
// @Failure 400 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /addresses [post]
func (h *AddressHandler) SaveAddress(c *fiber.Ctx) error {
	var req domain.ShippingAddress
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	saved, err := h.book.SaveAddress(c.UserContext(), req)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return server.FailFields(c, "invalid_address", fe)
		}
		logger.Get().Error("Failed to save address", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
	}
	return c.JSON(saved)
}

// DeleteAddress godoc
// @Summary Delete an address
// @Tags addresses
// @Param id path string true "Address ID"
// @Success 204
// @Failure 500 {object} server.ErrorResponse
// @Router /addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	if err := h.book.DeleteAddress(c.UserContext(), c.Params("id")); err != nil {
		logger.Get().Error("Failed to delete address", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
	}
	return c.SendStatus(http.StatusNoContent)
}
