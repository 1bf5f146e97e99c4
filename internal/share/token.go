package share

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenEntropyBytes is the raw entropy per share token. 32 bytes keeps tokens
// far beyond any practical guessing attack.
const tokenEntropyBytes = 32

// GenerateShareToken returns a URL-safe random token. The value is drawn
// entirely from the system CSPRNG; nothing about the recording, the clock or
// prior tokens feeds into it.
func GenerateShareToken() (string, error) {
	raw := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
