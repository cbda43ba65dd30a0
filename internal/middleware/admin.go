package middleware

import (
	"github.com/gofiber/fiber/v2"

	"securebank/internal/auth"
)

// RequireRoles gates a route group on the roles carried in the verified
// claims. Failing the policy is 403, distinct from a missing or invalid
// token (401) and from application-level 404s.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("claims").(*auth.Claims)

		if !auth.Allow(claims.Roles, roles) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
		}

		return c.Next()
	}
}
