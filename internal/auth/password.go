package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the unsalted SHA-256 hex digest of the password.
// Stored admin hashes in existing databases use this exact format.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password hashes to the stored digest
func CheckPassword(password, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(hashed)) == 1
}
