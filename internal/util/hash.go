package util

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashOpaque returns the base64url encoding (no padding) of sha256(plain).
// Opaque refresh tokens are stored only in this form.
func HashOpaque(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
