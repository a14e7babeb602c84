package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clontarfparadise/proshop-backend/internal/models"
	jwtPkg "github.com/clontarfparadise/proshop-backend/pkg/jwt"
)

const SessionCookieName = "admin_session"

// AdminMiddleware guards the back-office routes with the session cookie
// issued at login.
func AdminMiddleware(sessionSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authentication required"))
		}

		if err := jwtPkg.ValidateAdminToken(sessionSecret, token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid or expired session"))
		}

		return c.Next()
	}
}
