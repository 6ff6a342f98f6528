package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-task-backend/internal/domain"
)

// newTestDB opens a throwaway SQLite database and migrates the given models.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func strptr(s string) *string { return &s }

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "app.db"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestOpenSQLite_AndAutoMigrate(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	// The unique indexes must exist after migration: inserting duplicates fails.
	if err := db.Create(&domain.User{Name: "A", Email: "a@b.co", Password: "h"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	err = db.Create(&domain.User{Name: "B", Email: "a@b.co", Password: "h"}).Error
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate email violation, got %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	if IsDuplicate(nil) {
		t.Fatal("nil is not a duplicate")
	}
	if !IsDuplicate(gorm.ErrDuplicatedKey) {
		t.Fatal("gorm.ErrDuplicatedKey should be recognized")
	}
	if !IsDuplicate(fmt.Errorf("UNIQUE constraint failed: tasks.user_id, tasks.title")) {
		t.Fatal("sqlite unique message should be recognized")
	}
	if IsDuplicate(fmt.Errorf("connection refused")) {
		t.Fatal("unrelated errors are not duplicates")
	}
}
