package utils

import (
	cryptorand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/exp/rand"
)

const (
	iterationRounds = 10000
	subkeyLength    = 256 / 8
	saltSize        = 128 / 8
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

func init() {
	rand.Seed(uint64(time.Now().UnixNano()))
}

// HashPassword hashes a password with argon2id and a random salt.
func HashPassword(password string) string {
	salt := make([]byte, saltSize)
	if _, err := cryptorand.Read(salt); err != nil {
		panic(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltBase64 := base64.RawStdEncoding.EncodeToString(salt)
	hashBase64 := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, saltBase64, hashBase64)
}

// VerifyPassword checks a password against an argon2id hash produced by HashPassword.
func VerifyPassword(password, hash string) bool {
	var memory, timeCost uint32
	var threads uint8

	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[1] != "argon2id" {
		return false
	}

	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	subkey, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	derivedKey := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(subkey)))

	return subtle.ConstantTimeCompare(derivedKey, subkey) == 1
}

// VerifyLegacyPassword checks a password against a PBKDF2 hash imported from the
// previous identity platform (version byte 0x1, SHA-256, 10000 rounds).
func VerifyLegacyPassword(password, hash string) bool {
	decodedHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}

	if len(decodedHash) < saltSize+2 || decodedHash[0] != 0x1 {
		return false
	}

	salt := decodedHash[1 : saltSize+1]
	subkey := decodedHash[saltSize+1:]

	derivedKey := pbkdf2.Key([]byte(password), salt, iterationRounds, subkeyLength, sha256.New)

	return subtle.ConstantTimeCompare(derivedKey, subkey) == 1
}

func GenerateRandomString(limit int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, limit)
	for i := range result {
		result[i] = chars[rand.Intn(len(chars))]
	}

	return string(result)
}

// GenerateNumericCode returns a code of the given number of decimal digits,
// drawn from crypto/rand. Used for channel-delivered one-time codes.
func GenerateNumericCode(digits int) string {
	const numerals = "0123456789"
	result := make([]byte, digits)
	for i := range result {
		n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(len(numerals))))
		if err != nil {
			panic(err)
		}
		result[i] = numerals[n.Int64()]
	}

	return string(result)
}
