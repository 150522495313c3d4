package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/validation"
	"storefront/internal/features/auth/domain"
	"storefront/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthService is the account surface the handler needs.
type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	User(ctx context.Context, id string) (*domain.User, error)
	HasLaunched(ctx context.Context) (bool, error)
	MarkLaunched(ctx context.Context) error
}

// AuthHandler handles HTTP requests for accounts and onboarding.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// OnboardingResponse tells the client whether to show onboarding.
type OnboardingResponse struct {
	HasLaunched bool `json:"hasLaunched"`
}

// Register mounts the auth routes.
func (h *AuthHandler) Register(r fiber.Router) {
	r.Post("/auth/register", h.SignUp)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
	r.Get("/onboarding", h.GetOnboarding)
	r.Post("/onboarding", h.CompleteOnboarding)
}

// SignUp godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param account body domain.RegisterRequest true "Account"
// @Success 201 {object} domain.Session
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	session, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(session)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Session
// @Failure 401 {object} server.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "invalid_request_body")
	}

	session, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(session)
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext()); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me godoc
// @Summary Get the signed-in user
// @Description Uses the bearer token when present, the stored token otherwise.
// @Tags auth
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} domain.Profile
// @Failure 401 {object} server.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	var (
		user *domain.User
		err  error
	)
	if id := server.UserID(c); id != "" {
		user, err = h.service.User(c.UserContext(), id)
	} else {
		user, err = h.service.CurrentUser(c.UserContext())
	}
	if errors.Is(err, service.ErrUserNotFound) {
		err = service.ErrNotAuthenticated
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user.Profile())
}

// GetOnboarding godoc
// @Summary Whether onboarding was completed
// @Tags auth
// @Produce json
// @Success 200 {object} OnboardingResponse
// @Router /onboarding [get]
func (h *AuthHandler) GetOnboarding(c *fiber.Ctx) error {
	launched, err := h.service.HasLaunched(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(OnboardingResponse{HasLaunched: launched})
}

// CompleteOnboarding godoc
// @Summary Mark onboarding as completed
// @Tags auth
// @Produce json
// @Success 200 {object} OnboardingResponse
// @Router /onboarding [post]
func (h *AuthHandler) CompleteOnboarding(c *fiber.Ctx) error {
	if err := h.service.MarkLaunched(c.UserContext()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(OnboardingResponse{HasLaunched: true})
}

func (h *AuthHandler) fail(c *fiber.Ctx, err error) error {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		return server.FailFields(c, "invalid_credentials_form", fe)
	case errors.Is(err, service.ErrEmailTaken):
		return server.Fail(c, http.StatusConflict, err.Error(), server.ActionBack)
	case errors.Is(err, service.ErrInvalidCredentials):
		return server.Fail(c, http.StatusUnauthorized, err.Error(), server.ActionRetry)
	case errors.Is(err, service.ErrNotAuthenticated):
		return server.Fail(c, http.StatusUnauthorized, err.Error(), server.ActionBack)
	}

	logger.Get().Error("Auth request failed", zap.String("ray_id", server.RayID(c)), zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, server.MessageSomethingWentWrong, server.ActionRetry, server.ActionContactSupport)
}
