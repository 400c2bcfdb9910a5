package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("error message includes type and cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewDomainError(ErrorTypeInternal, "something failed", cause)

		assert.Contains(t, err.Error(), "internal")
		assert.Contains(t, err.Error(), "something failed")
		assert.Contains(t, err.Error(), "boom")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("errors.Is matches by type", func(t *testing.T) {
		err := NewDomainError(ErrorTypeConflict, "taken", nil)
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrapped domain errors keep their type", func(t *testing.T) {
		wrapped := fmt.Errorf("signup: %w", ErrUsernameTaken)
		assert.True(t, IsConflictError(wrapped))
		assert.Equal(t, ErrorTypeConflict, GetErrorType(wrapped))
	})

	t.Run("type helpers", func(t *testing.T) {
		assert.True(t, IsValidationError(ErrEmptyQuestion))
		assert.True(t, IsAuthenticationError(ErrInvalidCredentials))
		assert.True(t, IsAuthenticationError(ErrInvalidToken))
		assert.True(t, IsUpstreamError(ErrUpstream))
		assert.True(t, IsInternalError(ErrInternal))
		assert.False(t, IsValidationError(errors.New("plain")))
		assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
	})

	t.Run("WithDetail accumulates details", func(t *testing.T) {
		err := NewDomainError(ErrorTypeValidation, "bad input", nil).
			WithDetail("field", "email")
		assert.Equal(t, "email", GetErrorDetails(err)["field"])
	})
}
