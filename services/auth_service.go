package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/rag-gateway/models"
	"github.com/upb/rag-gateway/repositories"
	"go.uber.org/zap"
)

// minPasswordLength is the minimum accepted password length in bytes
const minPasswordLength = 8

// dummyDigest is a valid bcrypt digest compared against when signin hits an
// unknown email, so the miss costs roughly the same as a real verification.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordHasher hashes and verifies plaintext passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer issues and validates bearer tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (uuid.UUID, error)
}

// TokenResult is the outcome of a successful signup/signin/refresh
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// AuthService orchestrates signup, signin and token resolution over the
// credential store, password hasher and token service.
type AuthService struct {
	users      repositories.UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	resetCodes *resetCodeStore
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		resetCodes: newResetCodeStore(resetCodeTTL),
		logger:     logger,
	}
}

// Signup registers a new account and returns a token for it. Duplicate
// email/username fails with a conflict error and never overwrites.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (*TokenResult, error) {
	if err := validateSignup(email, username, password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to create user account", err)
	}

	user := models.NewUser(email, username, digest)
	if err := s.users.Create(ctx, user); err != nil {
		if IsConflictError(err) {
			return nil, err
		}
		return nil, NewDomainError(ErrorTypeInternal, "failed to create user account", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issueFor(user.ID)
}

// Signin authenticates by email and password. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Equalize timing between the unknown-email and
			// wrong-password paths.
			s.hasher.Verify(password, dummyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, NewDomainError(ErrorTypeInternal, "failed to sign in", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID.String()))

	return s.issueFor(user.ID)
}

// ResolveUser validates the bearer token and loads the user it was issued
// for. Used as the precondition of every protected route.
func (s *AuthService) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.tokens.Validate(tokenString)
	if err != nil {
		s.logger.Warn("token validation failed", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Subject no longer resolves to a user (deleted out-of-band)
			return nil, ErrInvalidToken
		}
		return nil, NewDomainError(ErrorTypeInternal, "failed to resolve user", err)
	}

	return user, nil
}

// Refresh re-issues a token for the subject of a still-valid token
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (*TokenResult, error) {
	user, err := s.ResolveUser(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return s.issueFor(user.ID)
}

// ForgotPassword generates a one-time reset code for the account. For an
// unknown email it returns an empty code and no error, so the HTTP response
// is identical either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", NewDomainError(ErrorTypeInternal, "failed to initiate password reset", err)
	}

	code, err := s.resetCodes.Generate(models.NormalizeEmail(user.Email))
	if err != nil {
		return "", NewDomainError(ErrorTypeInternal, "failed to initiate password reset", err)
	}

	s.logger.Info("password reset initiated", zap.String("user_id", user.ID.String()))
	return code, nil
}

// ResetPassword consumes a reset code and replaces the account password
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordShort
	}

	if !s.resetCodes.Consume(models.NormalizeEmail(email), code) {
		return ErrInvalidReset
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidReset
		}
		return NewDomainError(ErrorTypeInternal, "failed to reset password", err)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return NewDomainError(ErrorTypeInternal, "failed to reset password", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, digest); err != nil {
		return NewDomainError(ErrorTypeInternal, "failed to reset password", err)
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) issueFor(userID uuid.UUID) (*TokenResult, error) {
	token, expiresAt, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to issue token", err)
	}
	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func validateSignup(email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return ErrInvalidInput
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return ErrPasswordShort
	}
	return nil
}
