package authn

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"securebank/internal/config"
	"securebank/internal/database"
	"securebank/internal/mail"
	puser "securebank/internal/platform/user"
	"securebank/pkg/utils"
)

// IdentityStore is the slice of the user platform the authentication flows
// depend on. The gorm-backed user.UserService satisfies it in production.
type IdentityStore interface {
	GetUserByEmail(email string) (*database.User, error)
	GetUserByID(userID uuid.UUID) (*database.User, error)
	Update(user *database.User) error
	UpdatePassword(user *database.User, password string) error
	RegisterAccessFailure(user *database.User, maxAttempts int, lockoutFor time.Duration) (bool, error)
	ResetAccessFailures(user *database.User) error
	RegisterLogin(user *database.User) error
}

// CodeIssuer issues and consumes purpose-scoped one-time codes.
type CodeIssuer interface {
	Issue(user *database.User, purpose database.CodePurpose) (string, error)
	Validate(user *database.User, purpose database.CodePurpose, code string) (bool, error)
	Revoke(user *database.User, purpose database.CodePurpose) error
}

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	IssueToken(user *database.User) (string, time.Time, error)
}

// LoginResult is the single response shape for both authentication paths.
// A two-factor login answers with the user id and no token; the completed
// login (with or without a second factor) carries the signed token.
type LoginResult struct {
	RequiresTwoFactor bool       `json:"requires_two_factor"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	AccessToken       string     `json:"access_token,omitempty"`
	TokenType         string     `json:"token_type,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

type Service struct {
	users  IdentityStore
	codes  CodeIssuer
	tokens TokenIssuer
	mailer mail.Mailer
	cfg    *config.Config
}

func NewService(users IdentityStore, codes CodeIssuer, tokens TokenIssuer, mailer mail.Mailer, cfg *config.Config) *Service {
	return &Service{
		users:  users,
		codes:  codes,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
	}
}

// Login runs the first leg of the state machine: credential check, lockout
// check, then either token issuance or the second-factor branch. Absent,
// inactive and unconfirmed accounts fail exactly like a wrong password.
func (s *Service) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Inactive and unconfirmed accounts fail generically before the lockout
	// check. Deactivation parks the account behind a permanent lockout, and a
	// distinct lockout answer would give away that the identity exists.
	if !user.IsActive || !user.EmailConfirmed {
		return nil, ErrInvalidCredentials
	}

	if user.IsLockedOut() {
		return nil, ErrAccountLocked
	}

	if !s.verifyPassword(user, password) {
		if _, err := s.users.RegisterAccessFailure(user, s.cfg.LockoutMaxAttempts, s.lockoutDuration()); err != nil {
			log.Printf("Failed to record access failure for %s: %v\n", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		// The counter resets on a correct password, but last-login is only
		// recorded once the second factor is verified.
		if err := s.users.ResetAccessFailures(user); err != nil {
			return nil, err
		}

		code, err := s.codes.Issue(user, database.CodePurposeTwoFactor)
		if err != nil {
			return nil, err
		}
		s.dispatchTwoFactorCode(user, code)

		userID := user.ID
		return &LoginResult{RequiresTwoFactor: true, UserID: &userID}, nil
	}

	if err := s.users.RegisterLogin(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// VerifyTwoFactor completes a pending two-factor login. The one-time code is
// the secret; the user id merely addresses the pending attempt.
func (s *Service) VerifyTwoFactor(userID uuid.UUID, code string) (*LoginResult, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return nil, ErrInvalidTwoFactorRequest
		}
		return nil, err
	}

	if !user.IsActive || !user.EmailConfirmed || !user.TwoFactorEnabled {
		return nil, ErrInvalidTwoFactorRequest
	}

	if user.IsLockedOut() {
		return nil, ErrAccountLocked
	}

	ok, err := s.codes.Validate(user, database.CodePurposeTwoFactor, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		if s.cfg.TwoFactorCountsTowardLockout {
			if _, err := s.users.RegisterAccessFailure(user, s.cfg.LockoutMaxAttempts, s.lockoutDuration()); err != nil {
				log.Printf("Failed to record access failure for %s: %v\n", user.ID, err)
			}
		}
		return nil, ErrInvalidOrExpiredCode
	}

	if err := s.users.RegisterLogin(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// EnableTwoFactor turns on the second factor after a password re-proof.
func (s *Service) EnableTwoFactor(user *database.User, currentPassword string) error {
	return s.setTwoFactor(user, currentPassword, true)
}

// DisableTwoFactor turns off the second factor after a password re-proof.
func (s *Service) DisableTwoFactor(user *database.User, currentPassword string) error {
	return s.setTwoFactor(user, currentPassword, false)
}

func (s *Service) setTwoFactor(user *database.User, currentPassword string, enabled bool) error {
	if !s.verifyPassword(user, currentPassword) {
		return ErrInvalidCurrentPassword
	}

	user.TwoFactorEnabled = enabled
	return s.users.Update(user)
}

// ChangePassword rotates the hash for an authenticated caller. No second
// factor is demanded again; the bearer token already proves the session.
func (s *Service) ChangePassword(user *database.User, currentPassword, newPassword string) error {
	if !s.verifyPassword(user, currentPassword) {
		return ErrInvalidCurrentPassword
	}

	if err := s.users.UpdatePassword(user, newPassword); err != nil {
		return err
	}

	// A pending reset link must not survive a password rotation.
	return s.codes.Revoke(user, database.CodePurposePasswordReset)
}

// ForgotPassword issues a reset code when the account exists and is eligible.
// It never reports which case occurred; the HTTP response is identical either
// way so the endpoint cannot be used to enumerate addresses.
func (s *Service) ForgotPassword(email string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if !user.IsActive || !user.EmailConfirmed || user.IsLockedOut() {
		return nil
	}

	code, err := s.codes.Issue(user, database.CodePurposePasswordReset)
	if err != nil {
		log.Printf("Failed to issue reset code for %s: %v\n", user.ID, err)
		return nil
	}

	message := mail.Email{
		Subject: "SecureBank - Password reset",
		From:    s.sender(),
		To:      []string{user.Email},
		Body: fmt.Sprintf("A password reset was requested for your account.\n\n"+
			"Reset your password here: %s/reset-password?email=%s&token=%s\n\n"+
			"If this was not you, ignore this message.",
			strings.TrimSuffix(s.cfg.FrontendBaseURL, "/"), user.Email, code),
	}
	s.dispatch(&message)

	return nil
}

// ResetPassword swaps the hash on a token-validated request. The old password
// is not required; the consumed reset code proves channel possession.
func (s *Service) ResetPassword(email, token, newPassword string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return ErrInvalidOrExpiredResetLink
		}
		return err
	}

	ok, err := s.codes.Validate(user, database.CodePurposePasswordReset, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredResetLink
	}

	return s.users.UpdatePassword(user, newPassword)
}

// ConfirmEmail marks the address as verified. A second confirmation with an
// already consumed code fails generically.
func (s *Service) ConfirmEmail(userID uuid.UUID, token string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return err
	}

	ok, err := s.codes.Validate(user, database.CodePurposeEmailConfirmation, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredCode
	}

	if user.EmailConfirmed {
		return nil
	}

	user.EmailConfirmed = true
	return s.users.Update(user)
}

// ResendConfirmation follows the same anti-enumeration contract as
// ForgotPassword: the caller learns nothing about the address.
func (s *Service) ResendConfirmation(email string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, puser.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if !user.IsActive || user.EmailConfirmed {
		return nil
	}

	if err := s.SendConfirmationEmail(user); err != nil {
		log.Printf("Failed to issue confirmation code for %s: %v\n", user.ID, err)
	}

	return nil
}

// SendConfirmationEmail issues a confirmation code and dispatches the link.
// Also used by the management surface right after administrative creation.
func (s *Service) SendConfirmationEmail(user *database.User) error {
	code, err := s.codes.Issue(user, database.CodePurposeEmailConfirmation)
	if err != nil {
		return err
	}

	message := mail.Email{
		Subject: "SecureBank - Confirm your email address",
		From:    s.sender(),
		To:      []string{user.Email},
		Body: fmt.Sprintf("Welcome to SecureBank.\n\n"+
			"Confirm your email address here: %s/confirm-email?user_id=%s&token=%s\n",
			strings.TrimSuffix(s.cfg.FrontendBaseURL, "/"), user.ID, code),
	}
	s.dispatch(&message)

	return nil
}

func (s *Service) issueToken(user *database.User) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   &expiresAt,
	}, nil
}

// verifyPassword checks the stored hash, falling back to the legacy PBKDF2
// format for identities imported from the previous platform.
func (s *Service) verifyPassword(user *database.User, password string) bool {
	if user.PasswordHash == "" {
		return false
	}
	if strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		return utils.VerifyPassword(password, user.PasswordHash)
	}
	return utils.VerifyLegacyPassword(password, user.PasswordHash)
}

func (s *Service) dispatchTwoFactorCode(user *database.User, code string) {
	message := mail.Email{
		Subject: "SecureBank - Your verification code",
		From:    s.sender(),
		To:      []string{user.Email},
		Body: fmt.Sprintf("Your verification code is %s.\n\n"+
			"The code expires in %d minutes.", code, s.cfg.TwoFactorCodeLifetime),
	}
	s.dispatch(&message)
}

// dispatch hands the message to the collaborator. Delivery failure never
// fails the request, but a user who cannot receive a code is effectively
// locked out, so it has to show up in the logs.
func (s *Service) dispatch(message *mail.Email) {
	if err := s.mailer.SendMail(message); err != nil {
		log.Printf("Failed to send email notification: %v\n", err)
	}
}

func (s *Service) sender() string {
	return fmt.Sprintf("SecureBank <no-reply@%s>", s.cfg.MailgunDomain)
}

func (s *Service) lockoutDuration() time.Duration {
	return time.Duration(s.cfg.LockoutDuration) * time.Minute
}
