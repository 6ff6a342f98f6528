package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/domain"
)

// DefaultTokenTTL is the bearer token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the verified identity embedded in every bearer token. It is
// ephemeral: derived per request from the token signature, never stored.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for u, valid for ttl (24h when
// ttl <= 0). The claims embed the user id and email.
func IssueToken(secret []byte, ttl time.Duration, u *domain.User) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the embedded claims.
//
// Failures are typed authentication errors with distinct messages so the
// taxonomy keeps "expired" observable apart from "malformed/invalid", even
// though both surface as 401.
func ParseToken(secret []byte, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication("Token expired")
		}
		return nil, apperr.Authentication("Invalid token")
	}
	return claims, nil
}
