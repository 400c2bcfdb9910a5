package services

import (
	"context"
	"strings"

	"github.com/upb/rag-gateway/models"
	"github.com/upb/rag-gateway/rag"
	"go.uber.org/zap"
)

// QueryService forwards authenticated questions to the RAG backend, keyed by
// a per-user session reference.
type QueryService struct {
	rag    rag.Client
	logger *zap.Logger
}

// NewQueryService creates a new query service
func NewQueryService(client rag.Client, logger *zap.Logger) *QueryService {
	return &QueryService{
		rag:    client,
		logger: logger,
	}
}

// HandleQuery derives the session reference for the user, forwards the
// question once (no retries) and returns the answer with the reference used,
// so the client can resubmit it on the next turn for continuity.
func (s *QueryService) HandleQuery(ctx context.Context, user *models.User, question, sessionLabel string) (string, models.SessionRef, error) {
	ref := models.NewSessionRef(user.ID, sessionLabel)

	if strings.TrimSpace(question) == "" {
		return "", ref, ErrEmptyQuestion
	}

	answer, err := s.rag.Answer(ctx, question, ref.String())
	if err != nil {
		s.logger.Error("RAG backend call failed",
			zap.String("session_id", ref.String()),
			zap.Error(err))
		return "", ref, NewDomainError(ErrorTypeUpstream, "error processing query", err)
	}

	s.logger.Debug("query answered",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", ref.String()))

	return answer, ref, nil
}
