package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/rag-gateway/models"
	"github.com/upb/rag-gateway/utils"
	"go.uber.org/zap"
)

// UserResolver resolves a bearer token to the user it was issued for
type UserResolver interface {
	ResolveUser(ctx context.Context, tokenString string) (*models.User, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	resolver UserResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver UserResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid bearer token before the
// handler runs, and puts the resolved user on the request context. Token
// transport is exclusively the Authorization header.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing bearer token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		user, err := m.resolver.ResolveUser(ctx, token)
		if err != nil {
			m.logger.Warn("token resolution failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid authentication credentials")
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", user.ID.String()))

		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// extractBearerToken extracts the token from an "Authorization: Bearer X"
// header. Returns "" for a missing or malformed header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
