// Task lifecycle service.
//
// This file implements the TaskService, which manages the lifecycle of tasks.
// Every operation is scoped to the owning user: a task that exists under a
// different owner behaves exactly like one that does not exist at all, which
// keeps task ids non-enumerable across tenants.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/apperr"
	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/repo"
)

// duplicateTitleMsg is shared by create and update; clients match on it.
const duplicateTitleMsg = "Task title must be unique. You already have a task with this title."

// TaskPatch carries the optional fields of a partial task update. A nil
// pointer means "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// ListTasksOptions narrows and pages a task listing. Page and Limit are
// assumed pre-clamped by the transport layer (page >= 1, 1 <= limit <= 100).
type ListTasksOptions struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// TaskService provides owner-scoped CRUD over tasks.
type TaskService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// Create inserts a task owned by userID. The title is trimmed before the
// per-owner uniqueness check; status defaults to pending when empty. The
// ux_tasks_user_title index remains the authoritative duplicate guard, so
// an insert that loses the race is reported as the same conflict.
func (s *TaskService) Create(ctx context.Context, userID uint, title string, description *string, status string) (*domain.Task, error) {
	title = strings.TrimSpace(title)

	used, err := repo.TitleInUse(ctx, s.DB, userID, title, 0)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, apperr.Conflict(duplicateTitleMsg)
	}

	if status == "" {
		status = domain.StatusPending
	}

	t, err := repo.CreateTask(ctx, s.DB, userID, title, description, status)
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, apperr.Conflict(duplicateTitleMsg)
		}
		return nil, err
	}
	return t, nil
}

// List returns one page of the owner's tasks plus the total count matching
// the filter (for pagination metadata).
func (s *TaskService) List(ctx context.Context, userID uint, opts ListTasksOptions) ([]domain.Task, int64, error) {
	f := repo.TaskFilter{
		UserID: userID,
		Status: opts.Status,
		Search: opts.Search,
	}

	total, err := repo.CountTasks(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Task{}, 0, nil
	}

	offset := (opts.Page - 1) * opts.Limit
	items, err := repo.ListTasksPage(ctx, s.DB, f, offset, opts.Limit)
	return items, total, err
}

// Get fetches one task owned by userID, or a not-found failure.
func (s *TaskService) Get(ctx context.Context, userID, id uint) (*domain.Task, error) {
	t, err := repo.GetTask(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, err
	}
	return t, nil
}

// Update applies a partial patch to a task owned by userID. The per-owner
// title uniqueness check runs only when the title is actually changing;
// updated_at is refreshed on every successful call.
func (s *TaskService) Update(ctx context.Context, userID, id uint, patch TaskPatch) (*domain.Task, error) {
	current, err := repo.GetTask(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title != current.Title {
			used, err := repo.TitleInUse(ctx, s.DB, userID, title, id)
			if err != nil {
				return nil, err
			}
			if used {
				return nil, apperr.Conflict(duplicateTitleMsg)
			}
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	t, err := repo.UpdateTask(ctx, s.DB, id, userID, updates)
	if err != nil {
		switch {
		case repo.IsDuplicate(err):
			return nil, apperr.Conflict(duplicateTitleMsg)
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperr.NotFound("Task not found")
		}
		return nil, err
	}
	return t, nil
}

// Delete physically removes a task owned by userID. Missing and
// foreign-owned rows both report not-found.
func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	if err := repo.DeleteTask(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Task not found")
		}
		return err
	}
	return nil
}
