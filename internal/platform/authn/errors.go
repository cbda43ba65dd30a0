// Package authn implements the authentication flows: credential check,
// optional second factor, token issuance, and the password/email lifecycle.
// Expected failures are sentinel error values, not exceptions; handlers map
// them onto generically worded HTTP responses so callers cannot distinguish
// a wrong password from a nonexistent account.
package authn

import "errors"

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrAccountLocked             = errors.New("account locked")
	ErrInvalidTwoFactorRequest   = errors.New("invalid two-factor request")
	ErrInvalidOrExpiredCode      = errors.New("invalid or expired code")
	ErrInvalidOrExpiredResetLink = errors.New("invalid or expired reset link")
	ErrInvalidCurrentPassword    = errors.New("invalid current password")
)
