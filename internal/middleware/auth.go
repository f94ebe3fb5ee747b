package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/careerhub/internal/config"
	"github.com/example/careerhub/internal/utils"
)

// AuthCookieName is the cookie carrying the signed session token.
const AuthCookieName = "token"

const userContextKey = "currentUserID"

// AuthMiddleware validates the session JWT and loads the authenticated user
// ID into the request context. The token is read from the auth cookie set
// at registration/login, with an Authorization Bearer header as fallback.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AuthCookieName)
		if token == "" {
			parts := strings.SplitN(c.Get("Authorization"), " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
