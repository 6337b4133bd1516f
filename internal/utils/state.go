package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const stateBytes = 32

// GenerateState returns an unguessable URL-safe token for the OAuth state parameter.
func GenerateState() (string, error) {
	bytes := make([]byte, stateBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
