package handlers

import (
	"net/http"
	"time"

	"github.com/upb/rag-gateway/middleware"
	"github.com/upb/rag-gateway/utils"
	"go.uber.org/zap"
)

// ProfileResponse is the response body for GET /profile
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// HandleProfile handles GET /profile. RequireAuth has already resolved the
// user; the handler only shapes the response.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	resp := ProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write profile response", zap.Error(err))
	}
}
