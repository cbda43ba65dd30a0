package otp

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"securebank/internal/database"
	"securebank/pkg/utils"
)

const twoFactorCodeDigits = 6

// Lifetimes holds the per-purpose expiry windows.
type Lifetimes struct {
	TwoFactor         time.Duration
	EmailConfirmation time.Duration
	PasswordReset     time.Duration
}

// Service issues and validates purpose-scoped one-time codes. Codes live as
// rows in identity.one_time_code; validation deletes the row, which is what
// makes them single-use.
type Service struct {
	db        *gorm.DB
	lifetimes Lifetimes
}

func NewService(db *gorm.DB, lifetimes Lifetimes) *Service {
	return &Service{db: db, lifetimes: lifetimes}
}

// Issue creates a fresh code for (user, purpose), replacing any outstanding
// one. Second-factor codes are short numeric codes typed from a mail; the
// link-delivered purposes use an opaque uuid.
func (s *Service) Issue(user *database.User, purpose database.CodePurpose) (string, error) {
	var code string
	switch purpose {
	case database.CodePurposeTwoFactor:
		code = utils.GenerateNumericCode(twoFactorCodeDigits)
	default:
		code = uuid.NewString()
	}

	record := database.OneTimeCode{
		Code:      code,
		UserID:    user.ID,
		Purpose:   purpose,
		ExpiredAt: time.Now().Add(s.lifetime(purpose)),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND purpose = ?", user.ID, purpose).Delete(&database.OneTimeCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

// Validate consumes the code. It reports true only when the code exists for
// exactly this user and purpose, has not expired, and was not used before.
// The row is removed either way, so a replayed code never validates.
func (s *Service) Validate(user *database.User, purpose database.CodePurpose, code string) (bool, error) {
	var record database.OneTimeCode
	result := s.db.First(&record, "code = ? AND user_id = ? AND purpose = ?", code, user.ID, purpose)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}

	// The delete is the consume step; RowsAffected guards against a
	// concurrent validation spending the same row.
	del := s.db.Where("code = ? AND user_id = ? AND purpose = ?", code, user.ID, purpose).Delete(&database.OneTimeCode{})
	if del.Error != nil {
		return false, del.Error
	}
	if del.RowsAffected == 0 {
		return false, nil
	}

	if time.Now().After(record.ExpiredAt) {
		return false, nil
	}

	return true, nil
}

// Revoke drops any outstanding code for (user, purpose), e.g. pending reset
// links after the password has already been rotated.
func (s *Service) Revoke(user *database.User, purpose database.CodePurpose) error {
	return s.db.Where("user_id = ? AND purpose = ?", user.ID, purpose).Delete(&database.OneTimeCode{}).Error
}

func (s *Service) lifetime(purpose database.CodePurpose) time.Duration {
	switch purpose {
	case database.CodePurposeTwoFactor:
		return s.lifetimes.TwoFactor
	case database.CodePurposeEmailConfirmation:
		return s.lifetimes.EmailConfirmation
	default:
		return s.lifetimes.PasswordReset
	}
}
