package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails validation: bad
// signature, malformed payload, or past its expiry. Callers get one error
// kind; the underlying cause is available via errors.Unwrap for logging.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity inside the signed token
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenService issues and validates HS256-signed bearer tokens with a fixed
// lifetime. Tokens are stateless; there is no revocation.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService signing with secret. lifetime is the
// offset from issuance to expiry.
func NewTokenService(secret []byte, lifetime time.Duration) *TokenService {
	return &TokenService{secret: secret, lifetime: lifetime}
}

// Issue builds a signed token for the user and returns it with its expiry
func (s *TokenService) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks the signature and expiry of tokenString and returns the
// user id it was issued for. Every failure mode maps to ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return userID, nil
}

// Lifetime returns the configured token lifetime
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}
