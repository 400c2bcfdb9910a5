package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes of input
const maxPasswordBytes = 72

// PasswordHasher hashes and verifies plaintext passwords with bcrypt. The
// digest embeds its own salt, so hashing the same password twice yields
// different digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the default bcrypt cost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash produces a bcrypt digest of the password
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. The comparison inside
// bcrypt is constant-time with respect to the digest content.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(strings.TrimSpace(password))
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
