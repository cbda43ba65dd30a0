package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"securebank/internal/database"
	"securebank/pkg/utils"
)

// ErrUserNotFound is returned when no identity matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when a create collides with an existing address.
var ErrEmailTaken = errors.New("email already taken")

// permanentLockout is the sentinel used when an identity is deactivated.
// Deactivation is terminal; the account must never authenticate again.
var permanentLockout = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

type UserService struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lowercases and trims an address. Emails are unique
// case-insensitively, so every lookup and write goes through here.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(user *database.User) error {
	user.Email = NormalizeEmail(user.Email)

	result := s.db.Create(user)
	if result.Error != nil {
		return translateCreateError(result.Error)
	}
	return nil
}

// translateCreateError maps the unique-constraint violation onto the email
// sentinel. A pre-insert existence check cannot rule the collision out; two
// concurrent creates race, and the loser lands here.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*database.User, error) {
	var user database.User

	result := s.db.Preload("Roles").First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(email string) (*database.User, error) {
	var user database.User

	result := s.db.Preload("Roles").First(&user, "email = ?", NormalizeEmail(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *UserService) Update(user *database.User) error {
	result := s.db.Save(user)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the failure counter.
func (s *UserService) UpdatePassword(user *database.User, password string) error {
	hash := utils.HashPassword(password)

	err := s.db.Model(user).Updates(map[string]any{
		"password_hash":       hash,
		"access_failed_count": 0,
	}).Error
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.AccessFailedCount = 0
	return nil
}

// RegisterAccessFailure bumps the failure counter with an atomic increment and
// opens the lockout window once the threshold is crossed. The threshold check
// reads back the incremented value, so concurrent attempts may trip the
// lockout one attempt late (last write wins).
func (s *UserService) RegisterAccessFailure(user *database.User, maxAttempts int, lockoutFor time.Duration) (bool, error) {
	err := s.db.Exec("UPDATE identity.user SET access_failed_count = access_failed_count + 1 WHERE id = ?", user.ID).Error
	if err != nil {
		return false, err
	}

	var count int
	err = s.db.Raw("SELECT access_failed_count FROM identity.user WHERE id = ?", user.ID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	user.AccessFailedCount = count

	if count < maxAttempts {
		return false, nil
	}

	until := time.Now().Add(lockoutFor)
	err = s.db.Model(user).Updates(map[string]any{
		"lockout_until":       until,
		"access_failed_count": 0,
	}).Error
	if err != nil {
		return false, err
	}

	user.LockoutUntil = &until
	user.AccessFailedCount = 0
	return true, nil
}

// ResetAccessFailures clears the failure counter after a correct password.
func (s *UserService) ResetAccessFailures(user *database.User) error {
	err := s.db.Model(user).Update("access_failed_count", 0).Error
	if err != nil {
		return err
	}

	user.AccessFailedCount = 0
	return nil
}

// RegisterLogin records a successful authentication.
func (s *UserService) RegisterLogin(user *database.User) error {
	now := time.Now()

	err := s.db.Model(user).Updates(map[string]any{
		"access_failed_count": 0,
		"last_login":          now,
	}).Error
	if err != nil {
		return err
	}

	user.AccessFailedCount = 0
	user.LastLogin = &now
	return nil
}

// SetActive flips the active flag. Deactivation also parks the account behind
// a permanent lockout; activation clears lockout state entirely.
func (s *UserService) SetActive(user *database.User, active bool) error {
	updates := map[string]any{"is_active": active}
	if active {
		updates["lockout_until"] = nil
		updates["access_failed_count"] = 0
	} else {
		updates["lockout_until"] = permanentLockout
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return err
	}

	user.IsActive = active
	if active {
		user.LockoutUntil = nil
		user.AccessFailedCount = 0
	} else {
		lockout := permanentLockout
		user.LockoutUntil = &lockout
	}
	return nil
}

// EnsureRoles resolves role names to rows, creating missing ones.
func (s *UserService) EnsureRoles(names []string) ([]database.Role, error) {
	roles := make([]database.Role, 0, len(names))
	for _, name := range names {
		var role database.Role
		result := s.db.Where(database.Role{Name: name}).FirstOrCreate(&role)
		if result.Error != nil {
			return nil, result.Error
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// ReplaceRoles makes the given set authoritative: grants what is missing,
// revokes anything not in the set.
func (s *UserService) ReplaceRoles(user *database.User, roles []database.Role) error {
	if err := s.db.Model(user).Association("Roles").Replace(roles); err != nil {
		return err
	}

	user.Roles = roles
	return nil
}

// ListFilter narrows the employee listing.
type ListFilter struct {
	Search          string
	IncludeInactive bool
	Offset          int
	Limit           int
}

// List returns a deterministic page of identities (ordered by email) and the
// total match count so pagination is self-describing.
func (s *UserService) List(filter ListFilter) ([]database.User, int64, error) {
	query := s.db.Model(&database.User{})

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("lower(email) LIKE ? OR lower(coalesce(full_name, '')) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []database.User
	result := query.Preload("Roles").Order("email").Offset(filter.Offset).Limit(filter.Limit).Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, total, nil
}
