package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// resetCodeTTL is how long a password reset code stays usable
const resetCodeTTL = 15 * time.Minute

type resetCode struct {
	code      string
	expiresAt time.Time
}

// resetCodeStore holds one-time password reset codes keyed by normalized
// email. In-process only: losing codes on restart just means the user
// requests a new one.
type resetCodeStore struct {
	mu    sync.Mutex
	codes map[string]resetCode
	ttl   time.Duration
	now   func() time.Time
}

func newResetCodeStore(ttl time.Duration) *resetCodeStore {
	return &resetCodeStore{
		codes: make(map[string]resetCode),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Generate creates a fresh code for email, replacing any earlier one
func (s *resetCodeStore) Generate(email string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = resetCode{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}

	return code, nil
}

// Consume checks code for email and removes it on success. A code is valid
// exactly once and only before its expiry.
func (s *resetCodeStore) Consume(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.codes, email)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return false
	}

	delete(s.codes, email)
	return true
}
