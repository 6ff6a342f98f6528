// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the bearer-token gate for protected routes. It only
// inspects the Authorization header and the token signature; it never
// touches storage. On success the verified identity ends up in the Gin
// context; on failure a typed authentication error is recorded and the
// request aborted so the global error handler renders the 401.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/auth"
)

const (
	// userIDKey is the Gin context key holding the authenticated user id.
	userIDKey = "userID"
	// userEmailKey is the Gin context key holding the authenticated email.
	userEmailKey = "userEmail"
)

// RequireAuth gates a route group behind bearer-token authentication.
//
// Failure cases, all 401 via the error handler but with distinct messages
// for observability:
//   - Authorization header absent          → "Authorization header missing"
//   - no token segment after the scheme    → "Token missing"
//   - bad signature / malformed token      → "Invalid token"
//   - expired token                        → "Token expired"
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperr.Authentication("Authorization header missing"))
			return
		}

		// Expected shape: "Bearer <token>".
		parts := strings.SplitN(header, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, apperr.Authentication("Token missing"))
			return
		}

		claims, err := auth.ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// abortWith records err for the global error handler and stops the chain.
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// UserIDFrom returns the authenticated user id set by RequireAuth, or 0 when
// the request is unauthenticated.
func UserIDFrom(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// UserEmailFrom returns the authenticated email set by RequireAuth, or "".
func UserEmailFrom(c *gin.Context) string {
	if v, ok := c.Get(userEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
