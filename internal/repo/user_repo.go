// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound
//     (gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated; callers use IsDuplicate to detect
//     unique-index violations.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
)

// CreateUser inserts a new user row. The caller supplies the already-hashed
// password; plaintext never reaches this layer. A duplicate email surfaces
// as a unique-constraint error (checked via IsDuplicate).
func CreateUser(ctx context.Context, db *gorm.DB, name, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail fetches a user by email address, returning ErrNotFound when
// no account matches.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID fetches a user by primary key, returning ErrNotFound when the
// account does not exist.
func GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailInUse reports whether email belongs to a user other than excludeID.
// Pass excludeID 0 to consider every account (registration pre-check).
func EmailInUse(ctx context.Context, db *gorm.DB, email string, excludeID uint) (bool, error) {
	q := db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateUser applies the given column updates to the user identified by id
// and returns the refreshed row. GORM stamps updated_at on every call.
// Returns ErrNotFound when the user does not exist.
func UpdateUser(ctx context.Context, db *gorm.DB, id uint, updates map[string]any) (*domain.User, error) {
	res := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetUserByID(ctx, db, id)
}
