package database

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose scopes a one-time code to a single flow. A leaked confirmation
// code must never validate as a second-factor code or vice versa.
type CodePurpose string

const (
	CodePurposeTwoFactor         CodePurpose = "two_factor"
	CodePurposeEmailConfirmation CodePurpose = "email_confirmation"
	CodePurposePasswordReset     CodePurpose = "password_reset"
)

// User represents an internal employee identity.
type User struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email             string     `json:"email" gorm:"unique"`
	FullName          *string    `json:"full_name"`
	PhoneNumber       *string    `json:"phone_number"`
	PasswordHash      string     `json:"-"`
	EmailConfirmed    bool       `json:"email_confirmed" gorm:"default:false"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	TwoFactorEnabled  bool       `json:"two_factor_enabled" gorm:"default:false"`
	LockoutUntil      *time.Time `json:"-"`
	AccessFailedCount int        `json:"-" gorm:"default:0"`
	LastLogin         *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at" gorm:"default:now()"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Roles             []Role     `json:"roles" gorm:"many2many:identity.user_role;foreignKey:ID;joinForeignKey:user_id;References:ID;joinReferences:role_id"`
}

// TableName specifies the database table name for the User model
func (u *User) TableName() string {
	return "identity.user"
}

// IsLockedOut reports whether the lockout window is still open.
func (u *User) IsLockedOut() bool {
	return u.LockoutUntil != nil && u.LockoutUntil.After(time.Now())
}

// RoleNames flattens the role association for claims and DTOs.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// Role tags an identity for authorization. No hierarchy.
type Role struct {
	ID   int    `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique"`
}

func (r *Role) TableName() string {
	return "identity.role"
}

// OneTimeCode is a short-lived, single-use secret scoped to (user, purpose).
// Validation deletes the row, so a consumed code can never validate again.
type OneTimeCode struct {
	Code      string      `json:"code" gorm:"primaryKey"`
	UserID    uuid.UUID   `json:"user_id" gorm:"type:uuid"`
	Purpose   CodePurpose `json:"purpose"`
	CreatedAt time.Time   `json:"created_at" gorm:"default:now()"`
	ExpiredAt time.Time   `json:"expired_at"`
}

func (c *OneTimeCode) TableName() string {
	return "identity.one_time_code"
}
