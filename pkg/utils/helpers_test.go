package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash := HashPassword("P@ss1234")

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("HashPassword() = %q; want argon2id format", hash)
	}

	if !VerifyPassword("P@ss1234", hash) {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	if HashPassword("P@ss1234") == HashPassword("P@ss1234") {
		t.Error("HashPassword() produced identical hashes; salt is not random")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	testCases := []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2id$m=65536,t=1,p=4$invalid",
		"$bcrypt$whatever",
	}

	for _, hash := range testCases {
		if VerifyPassword("P@ss1234", hash) {
			t.Errorf("VerifyPassword() accepted malformed hash %q", hash)
		}
	}
}

func TestVerifyLegacyPassword(t *testing.T) {
	// Rebuild the imported format: version byte 0x1, 16-byte salt,
	// PBKDF2-SHA256 subkey with 10000 rounds.
	salt := []byte("0123456789abcdef")
	subkey := pbkdf2.Key([]byte("P@ss1234"), salt, 10000, 32, sha256.New)

	raw := append([]byte{0x1}, salt...)
	raw = append(raw, subkey...)
	hash := base64.StdEncoding.EncodeToString(raw)

	if !VerifyLegacyPassword("P@ss1234", hash) {
		t.Error("VerifyLegacyPassword() rejected the correct password")
	}
	if VerifyLegacyPassword("wrong", hash) {
		t.Error("VerifyLegacyPassword() accepted a wrong password")
	}
	if VerifyLegacyPassword("P@ss1234", "not-base64!") {
		t.Error("VerifyLegacyPassword() accepted a malformed hash")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(40)
	if len(s) != 40 {
		t.Errorf("GenerateRandomString(40) length = %d", len(s))
	}

	for _, r := range s {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r) {
			t.Errorf("GenerateRandomString() produced unexpected character %q", r)
		}
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code := GenerateNumericCode(6)
	if len(code) != 6 {
		t.Errorf("GenerateNumericCode(6) length = %d", len(code))
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("GenerateNumericCode() produced non-digit %q", r)
		}
	}
}
