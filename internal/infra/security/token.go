package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewOpaqueToken mints a URL-safe random token from byteLength bytes of
// entropy. Confirmation tokens travel in query strings, so the encoding is
// unpadded base64url.
func NewOpaqueToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("token entropy must be positive, got %d bytes", byteLength)
	}

	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
