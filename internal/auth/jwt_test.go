package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"securebank/internal/database"
)

func testUser() *database.User {
	name := "Alice Janssen"
	return &database.User{
		ID:       uuid.New(),
		Email:    "alice@bank.test",
		FullName: &name,
		Roles: []database.Role{
			{ID: 1, Name: "administrator"},
			{ID: 2, Name: "teller"},
		},
	}
}

func newTestIssuer(lifetime time.Duration) *TokenIssuer {
	return NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "securebank", "securebank-api", lifetime)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	user := testUser()

	token, expiresAt, err := issuer.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken() returned an empty token")
	}

	lifetime := time.Until(expiresAt)
	if lifetime < 59*time.Minute || lifetime > 61*time.Minute {
		t.Errorf("IssueToken() lifetime = %v; want about 1h", lifetime)
	}

	claims, err := issuer.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	if claims.Subject != user.ID.String() {
		t.Errorf("claims.Subject = %q; want %q", claims.Subject, user.ID.String())
	}
	if claims.Email != user.Email {
		t.Errorf("claims.Email = %q; want %q", claims.Email, user.Email)
	}
	if claims.Name != *user.FullName {
		t.Errorf("claims.Name = %q; want %q", claims.Name, *user.FullName)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "administrator" {
		t.Errorf("claims.Roles = %v; want [administrator teller]", claims.Roles)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	user := testUser()

	token, _, err := issuer.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	testCases := []struct {
		name     string
		verifier *TokenIssuer
		token    string
		want     error
	}{
		{
			"different signing key",
			NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "securebank", "securebank-api", time.Hour),
			token,
			ErrTokenInvalid,
		},
		{
			"wrong issuer",
			NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "someone-else", "securebank-api", time.Hour),
			token,
			ErrTokenInvalid,
		},
		{
			"wrong audience",
			NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "securebank", "other-api", time.Hour),
			token,
			ErrTokenInvalid,
		},
		{
			"garbage token",
			issuer,
			"not.a.token",
			ErrTokenInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.verifier.VerifyToken(tc.token); !errors.Is(err, tc.want) {
				t.Errorf("VerifyToken() error = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := newTestIssuer(-time.Minute)
	token, _, err := issuer.IssueToken(testUser())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := issuer.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyToken() error = %v; want ErrTokenExpired", err)
	}
}
