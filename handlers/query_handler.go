package handlers

import (
	"context"
	"net/http"

	"github.com/upb/rag-gateway/middleware"
	"github.com/upb/rag-gateway/models"
	"github.com/upb/rag-gateway/utils"
	"go.uber.org/zap"
)

// QueryService forwards an authenticated question to the RAG backend
type QueryService interface {
	HandleQuery(ctx context.Context, user *models.User, question, sessionLabel string) (string, models.SessionRef, error)
}

// QueryRequest is the request body for POST /query
type QueryRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the response body for POST /query. SessionID is the
// session reference used, so the client can resubmit it for continuity.
type QueryResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// QueryHandler handles RAG query HTTP requests
type QueryHandler struct {
	queries QueryService
	logger  *zap.Logger
}

// NewQueryHandler creates a new QueryHandler
func NewQueryHandler(queries QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		logger:  logger,
	}
}

// HandleQuery handles POST /query
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req QueryRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	answer, ref, err := h.queries.HandleQuery(r.Context(), user, req.Question, req.SessionID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp := QueryResponse{
		Answer:    answer,
		SessionID: ref.String(),
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write query response", zap.Error(err))
	}
}
