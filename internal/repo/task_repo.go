// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Task model.
//
// Ownership is baked into every query: each function that touches an
// existing row filters on both the task id and the owner id, so a row owned
// by another user is indistinguishable from a missing one (ErrNotFound in
// both cases). The HTTP layer relies on this to avoid id enumeration.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
)

// TaskFilter narrows task listings. UserID is mandatory (owner scoping);
// Status and Search are optional.
type TaskFilter struct {
	UserID uint
	// Status, when non-empty, filters by exact status match.
	Status string
	// Search, when non-empty, matches tasks whose title OR description
	// contains the substring, case-insensitively.
	Search string
}

func (f TaskFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("user_id = ?", f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		pat := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pat, pat)
	}
	return q
}

// CreateTask inserts a new task row for userID. Title must already be
// trimmed and status defaulted by the caller. A duplicate (owner, title)
// pair surfaces as a unique-constraint error (checked via IsDuplicate).
func CreateTask(ctx context.Context, db *gorm.DB, userID uint, title string, description *string, status string) (*domain.Task, error) {
	t := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTask fetches a single task by id scoped to its owner. Missing rows and
// rows owned by someone else both return ErrNotFound.
func GetTask(ctx context.Context, db *gorm.DB, id, userID uint) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TitleInUse reports whether the owner already has a task with this title,
// excluding excludeID (pass 0 on create). Advisory fast path only; the
// ux_tasks_user_title index remains authoritative.
func TitleInUse(ctx context.Context, db *gorm.DB, userID uint, title string, excludeID uint) (bool, error) {
	q := db.WithContext(ctx).Model(&domain.Task{}).
		Where("user_id = ? AND title = ?", userID, title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountTasks returns the number of rows matching the filter.
func CountTasks(ctx context.Context, db *gorm.DB, f TaskFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Task{})).Count(&total).Error
	return total, err
}

// ListTasksPage returns a page of tasks matching the filter, ordered by
// creation time descending. Use CountTasks for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*limit).
func ListTasksPage(ctx context.Context, db *gorm.DB, f TaskFilter, offset, limit int) ([]domain.Task, error) {
	var out []domain.Task
	err := f.apply(db.WithContext(ctx)).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateTask applies the given column updates to a task owned by userID and
// returns the refreshed row. GORM stamps updated_at on every call. Missing
// or foreign-owned rows return ErrNotFound.
func UpdateTask(ctx context.Context, db *gorm.DB, id, userID uint, updates map[string]any) (*domain.Task, error) {
	res := db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetTask(ctx, db, id, userID)
}

// DeleteTask physically removes a task owned by userID. Missing or
// foreign-owned rows return ErrNotFound.
func DeleteTask(ctx context.Context, db *gorm.DB, id, userID uint) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
