package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-task-backend/internal/domain"
	"gorm.io/gorm"
)

// seedTaskDB migrates users+tasks and creates two owners.
func seedTaskDB(t *testing.T) (*gorm.DB, *domain.User, *domain.User) {
	t.Helper()
	db := newTestDB(t, &domain.User{}, &domain.Task{})
	u1, err := CreateUser(context.Background(), db, "Owner", "owner@example.com", "h")
	if err != nil {
		t.Fatalf("seed u1: %v", err)
	}
	u2, err := CreateUser(context.Background(), db, "Other", "other@example.com", "h")
	if err != nil {
		t.Fatalf("seed u2: %v", err)
	}
	return db, u1, u2
}

func TestCreateTask_DefaultsApplied(t *testing.T) {
	db, u1, _ := seedTaskDB(t)

	task, err := CreateTask(context.Background(), db, u1.ID, "Buy milk", nil, domain.StatusPending)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == 0 || task.UserID != u1.ID || task.Status != domain.StatusPending {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Description != nil {
		t.Fatalf("description should stay NULL, got %v", *task.Description)
	}
}

func TestCreateTask_DuplicatePerOwnerOnly(t *testing.T) {
	db, u1, u2 := seedTaskDB(t)

	if _, err := CreateTask(context.Background(), db, u1.ID, "Same title", nil, domain.StatusPending); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// Same owner, same title: unique violation.
	_, err := CreateTask(context.Background(), db, u1.ID, "Same title", nil, domain.StatusPending)
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate violation, got %v", err)
	}
	// Different owner, same title: allowed.
	if _, err := CreateTask(context.Background(), db, u2.ID, "Same title", nil, domain.StatusPending); err != nil {
		t.Fatalf("same title for another user should be fine: %v", err)
	}
}

func TestGetTask_OwnershipScoped(t *testing.T) {
	db, u1, u2 := seedTaskDB(t)
	task, _ := CreateTask(context.Background(), db, u1.ID, "Mine", nil, domain.StatusPending)

	if _, err := GetTask(context.Background(), db, task.ID, u1.ID); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}
	// Another user sees not-found, not forbidden.
	if _, err := GetTask(context.Background(), db, task.ID, u2.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign fetch: expected ErrNotFound, got %v", err)
	}
}

func TestTitleInUse_ExcludesSelf(t *testing.T) {
	db, u1, _ := seedTaskDB(t)
	a, _ := CreateTask(context.Background(), db, u1.ID, "A", nil, domain.StatusPending)
	_, _ = CreateTask(context.Background(), db, u1.ID, "B", nil, domain.StatusPending)

	used, err := TitleInUse(context.Background(), db, u1.ID, "A", a.ID)
	if err != nil {
		t.Fatalf("TitleInUse: %v", err)
	}
	if used {
		t.Fatal("a task keeping its own title is not a conflict")
	}
	used, _ = TitleInUse(context.Background(), db, u1.ID, "B", a.ID)
	if !used {
		t.Fatal("renaming onto a sibling title is a conflict")
	}
}

func TestListTasksPage_FiltersAndOrder(t *testing.T) {
	db, u1, u2 := seedTaskDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []domain.Task{
		{UserID: u1.ID, Title: "Write report", Description: strptr("quarterly numbers"), Status: domain.StatusPending, CreatedAt: base},
		{UserID: u1.ID, Title: "Ship release", Status: domain.StatusInProgress, CreatedAt: base.Add(time.Hour)},
		{UserID: u1.ID, Title: "Groceries", Description: strptr("buy REPORT paper"), Status: domain.StatusDone, CreatedAt: base.Add(2 * time.Hour)},
		{UserID: u2.ID, Title: "Not yours", Status: domain.StatusPending, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	// Owner scoping + descending order.
	all, err := ListTasksPage(ctx, db, TaskFilter{UserID: u1.ID}, 0, 10)
	if err != nil {
		t.Fatalf("ListTasksPage: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Groceries" || all[2].Title != "Write report" {
		t.Fatalf("unexpected page: %+v", all)
	}

	// Status equality filter.
	done, _ := ListTasksPage(ctx, db, TaskFilter{UserID: u1.ID, Status: domain.StatusDone}, 0, 10)
	if len(done) != 1 || done[0].Title != "Groceries" {
		t.Fatalf("status filter: %+v", done)
	}

	// Case-insensitive search across title OR description.
	found, _ := ListTasksPage(ctx, db, TaskFilter{UserID: u1.ID, Search: "report"}, 0, 10)
	if len(found) != 2 {
		t.Fatalf("search should match title and description, got %+v", found)
	}

	// Count matches the same filter.
	n, err := CountTasks(ctx, db, TaskFilter{UserID: u1.ID, Search: "report"})
	if err != nil || n != 2 {
		t.Fatalf("CountTasks: n=%d err=%v", n, err)
	}

	// Offsets page through results.
	page2, _ := ListTasksPage(ctx, db, TaskFilter{UserID: u1.ID}, 2, 2)
	if len(page2) != 1 || page2[0].Title != "Write report" {
		t.Fatalf("offset page: %+v", page2)
	}
}

func TestUpdateTask_PartialAndOwnership(t *testing.T) {
	db, u1, u2 := seedTaskDB(t)
	ctx := context.Background()
	task, _ := CreateTask(ctx, db, u1.ID, "Original", strptr("desc"), domain.StatusPending)

	got, err := UpdateTask(ctx, db, task.ID, u1.ID, map[string]any{
		"status":     domain.StatusDone,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Status != domain.StatusDone || got.Title != "Original" || got.Description == nil || *got.Description != "desc" {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	// Foreign owner cannot update.
	if _, err := UpdateTask(ctx, db, task.ID, u2.ID, map[string]any{"status": domain.StatusPending, "updated_at": time.Now()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask_PhysicalAndScoped(t *testing.T) {
	db, u1, u2 := seedTaskDB(t)
	ctx := context.Background()
	task, _ := CreateTask(ctx, db, u1.ID, "Doomed", nil, domain.StatusPending)

	// Foreign owner: not found.
	if err := DeleteTask(ctx, db, task.ID, u2.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}
	// Owner: gone for good.
	if err := DeleteTask(ctx, db, task.ID, u1.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := GetTask(ctx, db, task.ID, u1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("row should be physically gone, got %v", err)
	}
	// Idempotent retry also reports not found.
	if err := DeleteTask(ctx, db, task.ID, u1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
