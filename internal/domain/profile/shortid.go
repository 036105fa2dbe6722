package profile

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"
)

const ShortIDLength = 8

var shortIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

// ShortID derives the public card token for a user id: the first eight
// characters of the unpadded URL-safe base64 SHA-256 digest.
func ShortID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:ShortIDLength]
}

// LooksLikeShortID reports whether id has the shape of a public card token.
// A match does not guarantee that a card exists for it.
func LooksLikeShortID(id string) bool {
	return shortIDPattern.MatchString(id)
}
