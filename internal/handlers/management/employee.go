package mngmt

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"securebank/internal/config"
	"securebank/internal/database"
	"securebank/internal/handlers"
	puser "securebank/internal/platform/user"
	"securebank/pkg/utils"
)

// EmployeeSummary is the listing DTO: enough to render an overview without
// exposing credential state.
type EmployeeSummary struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	FullName         *string   `json:"full_name"`
	EmailConfirmed   bool      `json:"email_confirmed"`
	IsActive         bool      `json:"is_active"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	Roles            []string  `json:"roles"`
}

func summarize(u *database.User) EmployeeSummary {
	return EmployeeSummary{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		EmailConfirmed:   u.EmailConfirmed,
		IsActive:         u.IsActive,
		TwoFactorEnabled: u.TwoFactorEnabled,
		Roles:            u.RoleNames(),
	}
}

func ListEmployees(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	page := NewPagination(0, c.QueryInt("page_number", 1), c.QueryInt("page_size", 20))

	users, total, err := userService.List(puser.ListFilter{
		Search:          c.Query("search"),
		IncludeInactive: c.QueryBool("include_inactive", false),
		Offset:          page.Offset(),
		Limit:           page.PageSize,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	page = NewPagination(total, page.PageNumber, page.PageSize)

	items := make([]EmployeeSummary, 0, len(users))
	for i := range users {
		items = append(items, summarize(&users[i]))
	}

	return c.JSON(fiber.Map{
		"items":        items,
		"total_count":  page.TotalCount,
		"page_number":  page.PageNumber,
		"page_size":    page.PageSize,
		"total_pages":  page.TotalPages,
		"has_next":     page.HasNext,
		"has_previous": page.HasPrevious,
	})
}

func CreateEmployee(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	type EmployeeInput struct {
		Email    string   `json:"email" validate:"required,email"`
		Password string   `json:"password" validate:"required,min=8"`
		FullName *string  `json:"full_name"`
		Roles    []string `json:"roles"`
	}

	var input EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	email := puser.NormalizeEmail(input.Email)

	if existing, _ := userService.GetUserByEmail(email); existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "User already exists"})
	}

	roles, err := userService.EnsureRoles(input.Roles)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	user := &database.User{
		Email:        email,
		FullName:     input.FullName,
		PasswordHash: utils.HashPassword(input.Password),
		IsActive:     true,
		Roles:        roles,
	}

	if err := userService.Create(user); err != nil {
		if errors.Is(err, puser.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "User already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	// New identities start unconfirmed; get the confirmation link out now.
	if err := handlers.AuthService(c).SendConfirmationEmail(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(summarize(user))
}

func GetEmployee(c *fiber.Ctx) error {
	user, status := employeeFromParams(c)
	if status != 0 {
		return employeeError(c, status)
	}

	return c.JSON(user)
}

func UpdateEmployee(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	user, status := employeeFromParams(c)
	if status != 0 {
		return employeeError(c, status)
	}

	type UpdateEmployeeInput struct {
		FullName    *string  `json:"full_name"`
		PhoneNumber *string  `json:"phone_number"`
		Roles       []string `json:"roles"`
	}

	var input UpdateEmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if input.FullName != nil {
		user.FullName = input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := userService.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	// The posted role set is authoritative, not additive.
	if input.Roles != nil {
		roles, err := userService.EnsureRoles(input.Roles)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
		if err := userService.ReplaceRoles(user, roles); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func ActivateEmployee(c *fiber.Ctx) error {
	return setEmployeeActive(c, true)
}

func DeactivateEmployee(c *fiber.Ctx) error {
	return setEmployeeActive(c, false)
}

func setEmployeeActive(c *fiber.Ctx, active bool) error {
	db := c.Locals("db").(*gorm.DB)

	userService := puser.NewService(db)

	user, status := employeeFromParams(c)
	if status != 0 {
		return employeeError(c, status)
	}

	// Idempotent: re-activating an active identity is a no-op success.
	if user.IsActive != active {
		if err := userService.SetActive(user, active); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func employeeFromParams(c *fiber.Ctx) (*database.User, int) {
	db := c.Locals("db").(*gorm.DB)

	uid, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return nil, fiber.StatusBadRequest
	}

	user, err := puser.NewService(db).GetUserByID(uid)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return nil, fiber.StatusNotFound
		}
		return nil, fiber.StatusInternalServerError
	}

	return user, 0
}

func employeeError(c *fiber.Ctx, status int) error {
	switch status {
	case fiber.StatusBadRequest:
		return c.Status(status).JSON(fiber.Map{"message": "Invalid user ID"})
	case fiber.StatusNotFound:
		return c.Status(status).JSON(fiber.Map{"message": "User not found"})
	default:
		return c.Status(status).JSON(fiber.Map{"message": "Internal server error"})
	}
}
