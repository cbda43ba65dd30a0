package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"securebank/internal/auth"
	puser "securebank/internal/platform/user"
)

// AuthMiddleware verifies the bearer token and loads the caller. Claims and
// the identity record land in locals; the claims alone carry the roles used
// by the policy gate.
func AuthMiddleware(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)
	tokens := c.Locals("tokens").(*auth.TokenIssuer)

	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := tokens.VerifyToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	userService := puser.NewService(db)
	user, err := userService.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	// A deactivated identity must not ride out an already issued token.
	if !user.IsActive || user.IsLockedOut() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	c.Locals("claims", claims)
	c.Locals("user", *user)

	return c.Next()
}
