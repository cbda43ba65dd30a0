package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"securebank/internal/auth"
	"securebank/internal/config"
	"securebank/internal/database"
	"securebank/internal/handlers"
	mngmt "securebank/internal/handlers/management"
	"securebank/internal/mail"
	"securebank/internal/middleware"
)

const adminRole = "administrator"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	tokens := auth.NewTokenIssuer(
		[]byte(cfg.JWTSecret),
		cfg.JWTIssuer,
		cfg.JWTAudience,
		time.Duration(cfg.TokenLifetime)*time.Minute,
	)
	mailer := mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)

	app := fiber.New()

	app.Use(compress.New())
	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(healthcheck.New())

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("db", db)
		c.Locals("tokens", tokens)
		c.Locals("mailer", mail.Mailer(mailer))
		return c.Next()
	})

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signin", handlers.SigninWithPassword)
	authGroup.Post("/2fa/verify", handlers.VerifyTwoFactor)
	authGroup.Get("/confirm-email", handlers.ConfirmEmail)
	authGroup.Post("/resend-confirmation", handlers.ResendConfirmation)
	authGroup.Post("/forgot-password", handlers.ForgotPassword)
	authGroup.Post("/reset-password", handlers.ResetPassword)

	authGroup.Post("/change-password", middleware.AuthMiddleware, handlers.ChangePassword)
	authGroup.Post("/2fa/enable", middleware.AuthMiddleware, handlers.EnableTwoFactor)
	authGroup.Post("/2fa/disable", middleware.AuthMiddleware, handlers.DisableTwoFactor)

	user := api.Group("/user", middleware.AuthMiddleware)
	user.Get("/me", handlers.GetCurrentUser)

	admin := api.Group("/admin", middleware.AuthMiddleware, middleware.RequireRoles(adminRole))
	admin.Get("/employees", mngmt.ListEmployees)
	admin.Post("/employees", mngmt.CreateEmployee)
	admin.Get("/employees/:user_id", mngmt.GetEmployee)
	admin.Put("/employees/:user_id", mngmt.UpdateEmployee)
	admin.Post("/employees/:user_id/activate", mngmt.ActivateEmployee)
	admin.Post("/employees/:user_id/deactivate", mngmt.DeactivateEmployee)

	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.ServerPort)))
}
