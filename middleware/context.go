package middleware

import (
	"context"

	"github.com/upb/rag-gateway/models"
)

// Context key type to avoid collisions
type contextKey string

// UserKey is the context key for the authenticated user
const UserKey contextKey = "user"

// GetUserFromContext retrieves the authenticated user from context. Returns
// nil when the request did not pass RequireAuth.
func GetUserFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the authenticated user to the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
