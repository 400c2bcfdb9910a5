package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultSessionLabel is used when the client does not supply a session label.
const DefaultSessionLabel = "default_session"

// SessionRef identifies a per-user conversation with the RAG backend. It is
// derived on every request and never persisted here; the RAG backend keys its
// chat history on the serialized form.
type SessionRef struct {
	UserID uuid.UUID
	Label  string
}

// NewSessionRef builds a session reference for a user, falling back to
// DefaultSessionLabel when label is empty.
func NewSessionRef(userID uuid.UUID, label string) SessionRef {
	if label == "" {
		label = DefaultSessionLabel
	}
	return SessionRef{UserID: userID, Label: label}
}

// String returns the opaque key the RAG backend expects: "<user_id>_<label>".
func (r SessionRef) String() string {
	return fmt.Sprintf("%s_%s", r.UserID, r.Label)
}
