// Package services defines the business logic for accounts and tasks.
//
// Services return typed failures from internal/apperr for every predictable
// case and raw errors for unexpected ones. Neither kind is handled here or in
// the handlers: both propagate to the global error handler middleware, the
// single point that translates failures into HTTP responses.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/auth"
	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/repo"
)

// UserService implements registration, login, and profile updates.
//
// The signing secret and hashing cost are injected once at construction from
// the immutable process configuration.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Secret signs and verifies bearer tokens.
	Secret []byte
	// TokenTTL is the bearer token lifetime (24h by default).
	TokenTTL time.Duration
	// BcryptCost is the password hashing work factor.
	BcryptCost int
}

// NewUserService constructs a UserService with the given credential settings.
func NewUserService(db *gorm.DB, secret []byte, tokenTTL time.Duration, bcryptCost int) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	if bcryptCost <= 0 {
		bcryptCost = auth.DefaultBcryptCost
	}
	return &UserService{DB: db, Secret: secret, TokenTTL: tokenTTL, BcryptCost: bcryptCost}
}

// Register creates a new account after checking email uniqueness. The
// pre-check is a fast path; the unique index on users.email is authoritative,
// so a concurrent duplicate insert is also reported as a conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	used, err := repo.EmailInUse(ctx, s.DB, email, 0)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, apperr.Conflict("Email already registered")
	}

	digest, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, name, email, digest)
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues a signed bearer token.
//
// Unknown email and wrong password produce the exact same message so the
// response never reveals whether an account exists.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, apperr.Authentication("Invalid credentials")
		}
		return "", nil, err
	}
	if !auth.CheckPassword(password, u.Password) {
		return "", nil, apperr.Authentication("Invalid credentials")
	}

	token, err := auth.IssueToken(s.Secret, s.TokenTTL, u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// UpdateProfile applies the supplied fields to the caller's own account and
// always refreshes updated_at. An email already used by a different user is
// a conflict; keeping one's own email is not.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, name, email *string) (*domain.User, error) {
	if email != nil {
		used, err := repo.EmailInUse(ctx, s.DB, *email, userID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, apperr.Conflict("Email already in use")
		}
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if name != nil {
		updates["name"] = *name
	}
	if email != nil {
		updates["email"] = *email
	}

	u, err := repo.UpdateUser(ctx, s.DB, userID, updates)
	if err != nil {
		switch {
		case repo.IsDuplicate(err):
			return nil, apperr.Conflict("Email already in use")
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}
