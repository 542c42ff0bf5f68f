package srctl

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of a candidate text.
// Candidates are already trimmed, so the text is hashed as is.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and a direction.
func CacheKey(hash string, direction Direction) string {
	return hash + ":" + string(direction)
}
