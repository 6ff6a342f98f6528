// Task HTTP handlers.
//
// This file exposes the owner-scoped task endpoints (all authenticated):
//   - POST   /tasks       (create)
//   - GET    /tasks       (list, paginated, filter + search)
//   - GET    /tasks/:id   (fetch one)
//   - PUT    /tasks/:id   (partial update)
//   - DELETE /tasks/:id   (permanent delete)
//
// Every operation is scoped to the authenticated owner; another user's task
// is indistinguishable from a missing one.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/http/middleware"
	"github.com/tbourn/go-task-backend/internal/services"
	"github.com/tbourn/go-task-backend/internal/utils"
)

//
// DTOs
//

// CreateTaskRequest is the JSON payload for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

// UpdateTaskRequest is the JSON payload for a partial task update. Absent
// fields keep their stored values.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

// Pagination carries paging metadata for list responses.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// ListTasksResponse wraps a page of tasks and its pagination block.
type ListTasksResponse struct {
	Tasks      []domain.Task `json:"tasks"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds the page and limit query params,
// returning (page, limit). Malformed values fall back to the defaults.
func clampPagination(c *gin.Context) (page, limit int) {
	const (
		defaultPage  = 1
		defaultLimit = 10
		maxLimit     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit == 0 {
		// An explicit 0 means "use the default", same as a missing value.
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return
}

// taskID parses the :id path parameter. Anything that is not an unsigned
// integer is a validation failure, not a lookup miss.
func taskID(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("Invalid task ID")
	}
	return uint(n), nil
}

//
// Handlers
//

// CreateTask creates a task for the authenticated user.
//
// Responds 201 with the stored task, 422 on invalid input, and 409 when the
// user already has a task with the same (trimmed) title.
func (h *Handlers) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := bindJSONStrict(c, &req); err != nil {
		fail(c, err)
		return
	}

	t, err := h.taskSvc.Create(c.Request.Context(),
		middleware.UserIDFrom(c), req.Title, req.Description, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    t,
	})
}

// ListTasks returns one page of the authenticated user's tasks.
//
// Supports page/limit paging (limit clamped to 1..100), an exact status
// filter, and a case-insensitive substring search over title and
// description. An unknown status value is a 422, not an empty result.
func (h *Handlers) ListTasks(c *gin.Context) {
	page, limit := clampPagination(c)

	status := c.Query("status")
	if status != "" && !domain.ValidStatus(status) {
		fail(c, apperr.Validation(`"status" must be one of [pending, in_progress, done]`))
		return
	}

	tasks, total, err := h.taskSvc.List(c.Request.Context(), middleware.UserIDFrom(c),
		services.ListTasksOptions{
			Page:   page,
			Limit:  limit,
			Status: status,
			Search: c.Query("search"),
		})
	if err != nil {
		fail(c, err)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	ok(c, http.StatusOK, ListTasksResponse{
		Tasks: tasks,
		Pagination: Pagination{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	})
}

// GetTask fetches a single task owned by the authenticated user.
//
// Responds 200 with the task, 422 for a malformed id, and 404 when the task
// does not exist or belongs to someone else.
func (h *Handlers) GetTask(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		fail(c, err)
		return
	}

	t, err := h.taskSvc.Get(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"task": t})
}

// UpdateTask applies a partial update to a task owned by the authenticated
// user.
//
// Responds 200 with the refreshed task, 422 on invalid input, 404 when the
// task is missing or foreign, and 409 when renaming collides with another
// of the user's tasks.
func (h *Handlers) UpdateTask(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := bindJSONStrict(c, &req); err != nil {
		fail(c, err)
		return
	}

	t, err := h.taskSvc.Update(c.Request.Context(), middleware.UserIDFrom(c), id,
		services.TaskPatch{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
		})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    t,
	})
}

// DeleteTask permanently removes a task owned by the authenticated user.
//
// Responds 204 on success, 422 for a malformed id, and 404 when the task is
// missing or foreign. Deleting twice yields 404 the second time.
func (h *Handlers) DeleteTask(c *gin.Context) {
	id, err := taskID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), middleware.UserIDFrom(c), id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
