// api/auth/apikey.go
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const apiKeyPrefixLen = 8

// GenerateAPIKey returns a new machine secret. Only its hash is stored;
// the raw value is shown to the caller exactly once.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return "vk_" + hex.EncodeToString(buf), nil
}

// HashAPIKey hashes the secret for storage and lookup. The digest is
// deterministic and unsalted so keys can be found by exact hash.
func HashAPIKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// KeyPrefix returns the short identification prefix persisted next to
// the hash.
func KeyPrefix(secret string) string {
	if len(secret) < apiKeyPrefixLen {
		return secret
	}
	return secret[:apiKeyPrefixLen]
}
