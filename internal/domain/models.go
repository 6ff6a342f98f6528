// Package domain defines the persistence models for users and tasks. These
// types are mapped with GORM and form the core data layer of the task API.
package domain

import "time"

// Task status enumeration. The database carries a matching check constraint
// so rows can never hold a value outside this set.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatuses lists every acceptable task status, in declaration order.
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusDone}

// ValidStatus reports whether s is one of the allowed task statuses.
func ValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// User represents a registered account. The email address is unique across
// all users and the password column only ever stores a one-way bcrypt hash.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Name: display name (3 to 50 chars, enforced at the boundary).
//   - Email: login identifier; the unique index is the authoritative guard
//     against duplicate registration (application checks are advisory).
//   - Password: bcrypt digest, never serialized to JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        uint      `json:"id"    gorm:"primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(50);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password  string    `json:"-"     gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Task represents a unit of work owned by exactly one user. Titles are
// unique within the owning user's task set; the composite unique index
// ux_tasks_user_title closes the check-then-insert race at the database
// level. Deletion is physical, with no soft-delete marker.
//
// Fields:
//   - ID: auto-increment primary key.
//   - UserID: owner foreign key; rows cascade-delete with their owner.
//   - Title: required, trimmed at the boundary, unique per owner.
//   - Description: optional free text (NULL when absent).
//   - Status: one of pending | in_progress | done, defaults to pending.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Task struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	UserID      uint      `json:"user_id"     gorm:"not null;index;uniqueIndex:ux_tasks_user_title,priority:1"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null;uniqueIndex:ux_tasks_user_title,priority:2"`
	Description *string   `json:"description" gorm:"type:text"`
	Status      string    `json:"status"      gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','in_progress','done')"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// User is the owning account. Tasks are cascade-deleted when the
	// owner row is removed.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }
