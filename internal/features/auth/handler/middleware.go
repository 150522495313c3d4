package handler

import (
	"strings"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Optional stores the user id of a valid bearer token in server.LocalsUserID.
// Requests without a token, or with a bad one, continue as guests.
func Optional(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		id, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Get().Debug("Ignoring invalid bearer token",
				zap.String("ray_id", server.RayID(c)),
				zap.Error(err),
			)
			return c.Next()
		}

		c.Locals(server.LocalsUserID, id)
		return c.Next()
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
