package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. PasswordHash is the bcrypt digest of
// the signup password; the plaintext is never stored.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance with a normalized email
func NewUser(email, username, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// NormalizeEmail lower-cases and trims an email address. Lookups and the
// unique constraint both operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
