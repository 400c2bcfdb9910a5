package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/rag-gateway/services"
	"go.uber.org/zap"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, email, username, password string) (*services.TokenResult, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenResult), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, email, password string) (*services.TokenResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenResult), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, tokenString string) (*services.TokenResult, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenResult), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	args := m.Called(ctx, email, code, newPassword)
	return args.Error(0)
}

func testTokenResult() *services.TokenResult {
	return &services.TokenResult{
		AccessToken: "header.payload.signature",
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(30 * time.Minute).UTC(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, req)
	return w
}

func TestHandleSignup(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful signup returns 201 with token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Signup", mock.Anything, "ada@example.com", "ada", "secretpass").
			Return(testTokenResult(), nil)

		w := postJSON(t, handler.HandleSignup, "/signup", SignupRequest{
			Email:    "ada@example.com",
			Username: "ada",
			Password: "secretpass",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp TokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "header.payload.signature", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.False(t, resp.ExpiresAt.IsZero())

		mockService.AssertExpectations(t)
	})

	t.Run("invalid request body", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.HandleSignup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Signup")
	})

	t.Run("validation error - short password", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		w := postJSON(t, handler.HandleSignup, "/signup", SignupRequest{
			Email:    "ada@example.com",
			Username: "ada",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Signup")
	})

	t.Run("validation error - malformed email", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		w := postJSON(t, handler.HandleSignup, "/signup", SignupRequest{
			Email:    "not-an-email",
			Username: "ada",
			Password: "secretpass",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Signup")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, services.ErrEmailTaken)

		w := postJSON(t, handler.HandleSignup, "/signup", SignupRequest{
			Email:    "taken@example.com",
			Username: "ada",
			Password: "secretpass",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandleSignin(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful signin returns 200 with token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Signin", mock.Anything, "ada@example.com", "secretpass").
			Return(testTokenResult(), nil)

		w := postJSON(t, handler.HandleSignin, "/signin", SigninRequest{
			Email:    "ada@example.com",
			Password: "secretpass",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp TokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "bearer", resp.TokenType)

		mockService.AssertExpectations(t)
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Signin", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, services.ErrInvalidCredentials)

		w := postJSON(t, handler.HandleSignin, "/signin", SigninRequest{
			Email:    "ada@example.com",
			Password: "wrongpass",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp["message"], "incorrect email or password")

		mockService.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		w := postJSON(t, handler.HandleSignin, "/signin", SigninRequest{
			Email: "ada@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Signin")
	})
}

func TestHandleRefresh(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid bearer token refreshed", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Refresh", mock.Anything, "old-token").
			Return(testTokenResult(), nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Authorization", "Bearer old-token")
		w := httptest.NewRecorder()

		handler.HandleRefresh(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		w := httptest.NewRecorder()

		handler.HandleRefresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "Refresh")
	})

	t.Run("expired token returns 401", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("Refresh", mock.Anything, "stale-token").
			Return(nil, services.ErrInvalidToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		w := httptest.NewRecorder()

		handler.HandleRefresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandleForgotPassword(t *testing.T) {
	logger := zap.NewNop()

	t.Run("known email with code exposure", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, true, logger)

		mockService.On("ForgotPassword", mock.Anything, "ada@example.com").
			Return("a1b2c3d4", nil)

		w := postJSON(t, handler.HandleForgotPassword, "/forgot-password", ForgotPasswordRequest{
			Email: "ada@example.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ResetPasswordResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "a1b2c3d4", resp.ResetCode)

		mockService.AssertExpectations(t)
	})

	t.Run("code never exposed when disabled", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("ForgotPassword", mock.Anything, "ada@example.com").
			Return("a1b2c3d4", nil)

		w := postJSON(t, handler.HandleForgotPassword, "/forgot-password", ForgotPasswordRequest{
			Email: "ada@example.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ResetPasswordResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Empty(t, resp.ResetCode)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, true, logger)

		mockService.On("ForgotPassword", mock.Anything, "ghost@example.com").
			Return("", nil)

		w := postJSON(t, handler.HandleForgotPassword, "/forgot-password", ForgotPasswordRequest{
			Email: "ghost@example.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ResetPasswordResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Empty(t, resp.ResetCode)
		assert.NotEmpty(t, resp.Message)
	})
}

func TestHandleResetPassword(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful reset", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("ResetPassword", mock.Anything, "ada@example.com", "a1b2c3d4", "newsecret123").
			Return(nil)

		w := postJSON(t, handler.HandleResetPassword, "/reset-password", ResetPasswordRequest{
			Email:       "ada@example.com",
			ResetCode:   "a1b2c3d4",
			NewPassword: "newsecret123",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("bad code returns 400", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		mockService.On("ResetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(services.ErrInvalidReset)

		w := postJSON(t, handler.HandleResetPassword, "/reset-password", ResetPasswordRequest{
			Email:       "ada@example.com",
			ResetCode:   "wrong",
			NewPassword: "newsecret123",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("new password too short", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, false, logger)

		w := postJSON(t, handler.HandleResetPassword, "/reset-password", ResetPasswordRequest{
			Email:       "ada@example.com",
			ResetCode:   "a1b2c3d4",
			NewPassword: "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ResetPassword")
	})
}
