package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/upb/rag-gateway/services"
	"github.com/upb/rag-gateway/utils"
	"go.uber.org/zap"
)

// AuthService is the surface of the auth gateway the HTTP layer depends on
type AuthService interface {
	Signup(ctx context.Context, email, username, password string) (*services.TokenResult, error)
	Signin(ctx context.Context, email, password string) (*services.TokenResult, error)
	Refresh(ctx context.Context, tokenString string) (*services.TokenResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// SignupRequest is the request body for POST /signup
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// SigninRequest is the request body for POST /signin and POST /login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the request body for POST /forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the request body for POST /reset-password
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetCode   string `json:"reset_code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// TokenResponse is the success shape for signup/signin/refresh
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ResetPasswordResponse is the response for the password reset endpoints
type ResetPasswordResponse struct {
	Message   string `json:"message"`
	ResetCode string `json:"reset_code,omitempty"`
}

// AuthHandler handles signup, signin and password reset HTTP requests
type AuthHandler struct {
	auth AuthService
	// exposeResetCodes echoes reset codes instead of sending email, for
	// environments without a mail sender
	exposeResetCodes bool
	logger           *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, exposeResetCodes bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:             auth,
		exposeResetCodes: exposeResetCodes,
		logger:           logger,
	}
}

// HandleSignup handles POST /signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	respondToken(w, http.StatusCreated, result, h.logger)
}

// HandleSignin handles POST /signin and its alias POST /login
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	result, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	respondToken(w, http.StatusOK, result, h.logger)
}

// HandleRefresh handles POST /refresh. The token to refresh travels in the
// Authorization header like any other protected call.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
		return
	}

	result, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	respondToken(w, http.StatusOK, result, h.logger)
}

// HandleForgotPassword handles POST /forgot-password. The response does not
// reveal whether the email is registered.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	code, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp := ResetPasswordResponse{
		Message: "If the email exists, a reset code has been sent.",
	}
	if h.exposeResetCodes && code != "" {
		resp.ResetCode = code
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write forgot-password response", zap.Error(err))
	}
}

// HandleResetPassword handles POST /reset-password
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.ResetCode, req.NewPassword); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, ResetPasswordResponse{Message: "Password reset successfully"}); err != nil {
		h.logger.Error("failed to write reset-password response", zap.Error(err))
	}
}

// decodeAndValidate decodes the JSON body into dst and validates it. Writes
// a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := utils.WriteBadRequest(w, "Invalid request body", nil); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, err.Error(), details); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}
		return false
	}

	return true
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

func respondToken(w http.ResponseWriter, status int, result *services.TokenResult, logger *zap.Logger) {
	resp := TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
	}
	if err := utils.WriteJSON(w, status, resp); err != nil {
		logger.Error("failed to write token response", zap.Error(err))
	}
}
