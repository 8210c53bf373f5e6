package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashSHA512 returns the lowercase hex SHA-512 digest of password, the form
// PE_PASSWORD accepts by default.
func HashSHA512(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashBcrypt returns a bcrypt hash of password. A cost of 0 picks the
// library default.
func HashBcrypt(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsBcrypt reports whether hash carries a bcrypt version prefix.
func IsBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

// VerifyPassword checks submitted against the configured hash, which is
// either bcrypt or SHA-512 hex.
func VerifyPassword(configured, submitted string) bool {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return false
	}
	if IsBcrypt(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	got := HashSHA512(submitted)
	want := strings.ToLower(configured)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
