package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/preferences/domain"
	"storefront/internal/features/preferences/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Themes interface {
	Mode(ctx context.Context) (domain.ThemeMode, error)
	SetMode(ctx context.Context, mode domain.ThemeMode) error
	Toggle(ctx context.Context) (domain.ThemeMode, error)
}

type Currencies interface {
	Currency(ctx context.Context) (domain.Currency, error)
	SetCurrency(ctx context.Context, c domain.Currency) error
}

type Settings interface {
	Settings(ctx context.Context) (domain.AppSettings, error)
	Update(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error)
}

// PreferencesHandler handles HTTP requests for theme, currency and app settings.
type PreferencesHandler struct {
	themes     Themes
	currencies Currencies
	settings   Settings
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(themes Themes, currencies Currencies, settings Settings) *PreferencesHandler {
	return &PreferencesHandler{themes: themes, currencies: currencies, settings: settings}
}

// ThemeBody is the theme resource.
type ThemeBody struct {
	Mode domain.ThemeMode `json:"mode"`
}

// CurrencyBody is the currency resource. Symbol is ignored on input.
type CurrencyBody struct {
	Currency domain.Currency `json:"currency"`
	Symbol   string          `json:"symbol,omitempty"`
}

// Register mounts the preference routes.
func (h *PreferencesHandler) Register(r fiber.Router) {
	g := r.Group("/preferences")
	g.Get("/theme", h.GetTheme)
	g.Put("/theme", h.SetTheme)
	g.Post("/theme/toggle", h.ToggleTheme)
	g.Get("/currency", h.GetCurrency)
	g.Put("/currency", h.SetCurrency)
	g.Get("/settings", h.GetSettings)
	g.Put("/settings", h.UpdateSettings)
}

// GetTheme godoc
// @Summary Get the theme mode
// @Tags preferences
// @Produce json
// @Success 200 {object} ThemeBody
// @Router /preferences/theme [get]
func (h *PreferencesHandler) GetTheme(c *fiber.Ctx) error {
	mode, err := h.themes.Mode(c.UserContext())
	if err != nil {
		return internal(c, err)
	}
	return c.JSON(ThemeBody{Mode: mode})
}

// SetTheme godoc
// @Summary Set the theme mode
// @Tags preferences
// @Accept json
// @Produce json
// @Param theme body ThemeBody true "light or dark"
// @Success 200 {object} ThemeBody
// @Failure 400 {object} server.ErrorResponse
// @Router /preferences/theme [put]
func (h *PreferencesHandler) SetTheme(c *fiber.Ctx) error {
	var body ThemeBody
	if err := c.BodyParser(&body); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	if err := h.themes.SetMode(c.UserContext(), body.Mode); err != nil {
		if errors.Is(err, service.ErrInvalidTheme) {
			return server.FailFields(c, err.Error(), map[string]string{"mode": validation.ErrInvalid.Error()})
		}
		return internal(c, err)
	}
	return c.JSON(body)
}

// ToggleTheme godoc
// @Summary Switch between light and dark
// @Tags preferences
// @Produce json
// @Success 200 {object} ThemeBody
// @Router /preferences/theme/toggle [post]
func (h *PreferencesHandler) ToggleTheme(c *fiber.Ctx) error {
	mode, err := h.themes.Toggle(c.UserContext())
	if err != nil {
		return internal(c, err)
	}
	return c.JSON(ThemeBody{Mode: mode})
}

// GetCurrency godoc
// @Summary Get the display currency
// @Tags preferences
// @Produce json
// @Success 200 {object} CurrencyBody
// @Router /preferences/currency [get]
func (h *PreferencesHandler) GetCurrency(c *fiber.Ctx) error {
	cur, err := h.currencies.Currency(c.UserContext())
	if err != nil {
		return internal(c, err)
	}
	return c.JSON(CurrencyBody{Currency: cur, Symbol: cur.Symbol()})
}

// SetCurrency godoc
// @Summary Set the display currency
// @Tags preferences
// @Accept json
// @Produce json
// @Param currency body CurrencyBody true "Som, USD, EUR, RUB or KRW"
// @Success 200 {object} CurrencyBody
// @Failure 400 {object} server.ErrorResponse
// @Router /preferences/currency [put]
func (h *PreferencesHandler) SetCurrency(c *fiber.Ctx) error {
	var body CurrencyBody
	if err := c.BodyParser(&body); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	if err := h.currencies.SetCurrency(c.UserContext(), body.Currency); err != nil {
		if errors.Is(err, service.ErrInvalidCurrency) {
			return server.FailFields(c, err.Error(), map[string]string{"currency": validation.ErrInvalid.Error()})
		}
		return internal(c, err)
	}
	return c.JSON(CurrencyBody{Currency: body.Currency, Symbol: body.Currency.Symbol()})
}

// GetSettings godoc
// @Summary Get the app settings
// @Tags preferences
// @Produce json
// @Success 200 {object} domain.AppSettings
// @Router /preferences/settings [get]
func (h *PreferencesHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Settings(c.UserContext())
	if err != nil {
		return internal(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings godoc
// @Summary Replace the app settings
// @Tags preferences
// @Accept json
// @Produce json
// @Param settings body domain.AppSettings true "Settings"
// @Success 200 {object} domain.AppSettings
// @Failure 400 {object} server.ErrorResponse
// @Router /preferences/settings [put]
func (h *PreferencesHandler) UpdateSettings(c *fiber.Ctx) error {
	var body domain.AppSettings
	if err := c.BodyParser(&body); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}
	settings, err := h.settings.Update(c.UserContext(), body)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return server.FailFields(c, "invalid_settings", fe)
		}
		return internal(c, err)
	}
	return c.JSON(settings)
}

func internal(c *fiber.Ctx, err error) error {
	logger.Get().Error("Preferences request failed", zap.String("ray_id", server.RayID(c)), zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong)
}
