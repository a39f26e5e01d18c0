package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken creates a cryptographically secure random token of
// length random bytes, encoded unpadded URL-safe base64.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
