package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const userKeyLen = 32

// HashUserKey returns the storage directory for a user's objects. Raw user
// ids never appear in object keys.
func HashUserKey(userID string) string {
	return Digest("matchrate/user", userID)[:userKeyLen]
}

// Digest returns the hex SHA-256 of parts. Parts are separated by a unit
// separator so ("ab", "c") and ("a", "bc") hash differently.
func Digest(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
