// User account HTTP handlers.
//
// This file exposes the account endpoints:
//   - POST /users/register  (create an account)
//   - POST /users/login     (exchange credentials for a JWT)
//   - PUT  /users/profile   (update name and/or email, authenticated)
//
// Handlers are transport-thin: they validate input, call application
// services, and shape the success response. Failures are recorded on the
// context and translated by the ErrorHandler middleware.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/http/middleware"
	"github.com/tbourn/go-task-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates an account and returns the stored user.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// UpdateProfile changes name and/or email; nil means leave unchanged.
	UpdateProfile(ctx context.Context, userID uint, name, email *string) (*domain.User, error)
}

// TaskService defines the task operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TaskService interface {
	// Create stores a new task owned by userID.
	Create(ctx context.Context, userID uint, title string, description *string, status string) (*domain.Task, error)
	// List returns one page of the owner's tasks and the filtered total.
	List(ctx context.Context, userID uint, opts services.ListTasksOptions) ([]domain.Task, int64, error)
	// Get fetches a single task owned by userID.
	Get(ctx context.Context, userID, id uint) (*domain.Task, error)
	// Update applies a partial patch to a task owned by userID.
	Update(ctx context.Context, userID, id uint, patch services.TaskPatch) (*domain.Task, error)
	// Delete permanently removes a task owned by userID.
	Delete(ctx context.Context, userID, id uint) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts and tasks. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	userSvc UserService
	taskSvc TaskService
}

// New constructs a Handlers instance bound to the given services.
func New(userSvc UserService, taskSvc TaskService) *Handlers {
	return &Handlers{userSvc: userSvc, taskSvc: taskSvc}
}

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest is the JSON payload for a profile change. Both fields
// are optional but at least one must be present.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service; timestamps appear only where the endpoint includes
// them.
type UserResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

//
// Handlers
//

// Register creates a new account.
//
// Responds 201 with the stored user, 422 on invalid input, and 409 when the
// email is already registered.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSONStrict(c, &req); err != nil {
		fail(c, err)
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			CreatedAt: &u.CreatedAt,
		},
	})
}

// Login exchanges credentials for a signed JWT.
//
// Responds 200 with the token and user summary, 422 on invalid input, and
// 401 with an identical message for unknown email or wrong password.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSONStrict(c, &req); err != nil {
		fail(c, err)
		return
	}

	token, u, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": UserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		},
	})
}

// UpdateProfile changes the authenticated user's name and/or email.
//
// Responds 200 with the updated user, 422 when neither field is present,
// and 409 when the email belongs to another account.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := bindJSONStrict(c, &req); err != nil {
		fail(c, err)
		return
	}

	// Empty strings behave like absent fields.
	name := nonEmpty(req.Name)
	email := nonEmpty(req.Email)
	if name == nil && email == nil {
		fail(c, apperr.Validation(`"value" must contain at least one of [name, email]`))
		return
	}

	u, err := h.userSvc.UpdateProfile(c.Request.Context(), middleware.UserIDFrom(c), name, email)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			UpdatedAt: &u.UpdatedAt,
		},
	})
}

// nonEmpty collapses a pointer to the empty string into nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
