// Package token generates opaque URL-safe tokens for invitations.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const defaultBytes = 32

// New returns a cryptographically random URL-safe token.
func New() (string, error) {
	return NewN(defaultBytes)
}

// NewN returns a token with n bytes of entropy.
func NewN(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
