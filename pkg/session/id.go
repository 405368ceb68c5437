package session

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// idLength is the length of a base64url-encoded 16-byte UUID.
const idLength = 22

// NewID returns a random 128-bit identifier (UUIDv4) encoded as 22 URL-safe
// characters. The alphabet is [A-Za-z0-9_-], so ids are usable as store keys
// without escaping.
func NewID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// ValidID reports whether s has the shape produced by NewID.
func ValidID(s string) bool {
	if len(s) != idLength {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil
}
