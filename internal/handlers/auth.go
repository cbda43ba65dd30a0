package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"securebank/internal/auth"
	"securebank/internal/config"
	"securebank/internal/database"
	"securebank/internal/mail"
	"securebank/internal/platform/authn"
	"securebank/internal/platform/otp"
	puser "securebank/internal/platform/user"
)

// AuthService assembles the authentication service from request locals,
// mirroring how the per-request user service is built everywhere else.
func AuthService(c *fiber.Ctx) *authn.Service {
	cfg := c.Locals("config").(*config.Config)
	db := c.Locals("db").(*gorm.DB)
	tokens := c.Locals("tokens").(*auth.TokenIssuer)
	mailer := c.Locals("mailer").(mail.Mailer)

	users := puser.NewService(db)
	codes := otp.NewService(db, otp.Lifetimes{
		TwoFactor:         time.Duration(cfg.TwoFactorCodeLifetime) * time.Minute,
		EmailConfirmation: time.Duration(cfg.ConfirmCodeLifetime) * time.Minute,
		PasswordReset:     time.Duration(cfg.ResetCodeLifetime) * time.Minute,
	})

	return authn.NewService(users, codes, tokens, mailer, cfg)
}

// authError maps service error kinds onto the deliberately narrow set of
// generic responses.
func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authn.ErrAccountLocked):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "account_locked"})
	case errors.Is(err, authn.ErrInvalidCredentials),
		errors.Is(err, authn.ErrInvalidCurrentPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	case errors.Is(err, authn.ErrInvalidTwoFactorRequest),
		errors.Is(err, authn.ErrInvalidOrExpiredCode):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired code"})
	case errors.Is(err, authn.ErrInvalidOrExpiredResetLink):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_reset_link"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}

func SigninWithPassword(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := AuthService(c).Login(input.Email, input.Password)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(result)
}

func VerifyTwoFactor(c *fiber.Ctx) error {
	type VerifyInput struct {
		UserID string `json:"user_id" validate:"required,uuid"`
		Code   string `json:"code" validate:"required"`
	}

	var input VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	result, err := AuthService(c).VerifyTwoFactor(userID, input.Code)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(result)
}

func EnableTwoFactor(c *fiber.Ctx) error {
	return setTwoFactor(c, true)
}

func DisableTwoFactor(c *fiber.Ctx) error {
	return setTwoFactor(c, false)
}

func setTwoFactor(c *fiber.Ctx, enabled bool) error {
	user := c.Locals("user").(database.User)

	type TwoFactorInput struct {
		CurrentPassword string `json:"current_password" validate:"required"`
	}

	var input TwoFactorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	service := AuthService(c)

	var err error
	if enabled {
		err = service.EnableTwoFactor(&user, input.CurrentPassword)
	} else {
		err = service.DisableTwoFactor(&user, input.CurrentPassword)
	}
	if err != nil {
		return authError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func ConfirmEmail(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := AuthService(c).ConfirmEmail(userID, token); err != nil {
		return authError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func ResendConfirmation(c *fiber.Ctx) error {
	return antiEnumerationFlow(c, func(service *authn.Service, email string) error {
		return service.ResendConfirmation(email)
	})
}

func ForgotPassword(c *fiber.Ctx) error {
	return antiEnumerationFlow(c, func(service *authn.Service, email string) error {
		return service.ForgotPassword(email)
	})
}

// antiEnumerationFlow answers {sent:true} for any well-formed address,
// whether or not an account exists behind it.
func antiEnumerationFlow(c *fiber.Ctx, flow func(*authn.Service, string) error) error {
	type EmailInput struct {
		Email string `json:"email" validate:"required,email"`
	}

	var input EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := flow(AuthService(c), input.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"sent": true})
}

func ResetPassword(c *fiber.Ctx) error {
	type ResetPasswordInput struct {
		Email       string `json:"email" validate:"required,email"`
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	var input ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := AuthService(c).ResetPassword(input.Email, input.Token, input.NewPassword); err != nil {
		return authError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func ChangePassword(c *fiber.Ctx) error {
	user := c.Locals("user").(database.User)

	type ChangePasswordInput struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	var input ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := AuthService(c).ChangePassword(&user, input.CurrentPassword, input.NewPassword); err != nil {
		return authError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
