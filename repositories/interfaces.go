package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/rag-gateway/models"
)

// UserRepository handles user credential records. The gateway never updates
// or deletes users except for the single password-reset UPDATE.
type UserRepository interface {
	// Create persists a new user. Returns services.ErrEmailTaken or
	// services.ErrUsernameTaken when the email or username is already
	// registered.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID. Returns services.ErrUserNotFound
	// when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by normalized email. Returns
	// services.ErrUserNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePasswordHash replaces the stored digest for a user. Used only
	// by the password-reset flow.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}
