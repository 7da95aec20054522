package service

import (
	"errors"
	"testing"

	"github.com/draftsmith/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupBranchServiceTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Document{}, &db.DocumentBranch{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestGetOrCreateBranchIdempotent(t *testing.T) {
	cleanup := setupBranchServiceTestDB(t)
	defer cleanup()

	doc := db.Document{Title: "Doc"}
	if err := db.DB.Create(&doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	svc := NewBranchService(db.DB)

	first, err := svc.GetOrCreate(doc.ID, "draft", nil)
	if err != nil {
		t.Fatalf("first get-or-create returned error: %v", err)
	}
	second, err := svc.GetOrCreate(doc.ID, "draft", nil)
	if err != nil {
		t.Fatalf("second get-or-create returned error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same branch, got ids %d and %d", first.ID, second.ID)
	}
	if first.IsMain {
		t.Fatal("draft branch must not be flagged as main")
	}
}

func TestGetOrCreateBranchMainFlag(t *testing.T) {
	cleanup := setupBranchServiceTestDB(t)
	defer cleanup()

	doc := db.Document{Title: "Doc"}
	if err := db.DB.Create(&doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	svc := NewBranchService(db.DB)
	branch, err := svc.GetOrCreate(doc.ID, "main", nil)
	if err != nil {
		t.Fatalf("get-or-create returned error: %v", err)
	}
	if !branch.IsMain {
		t.Fatal("expected main branch to carry isMain flag")
	}
	if !branch.IsActive {
		t.Fatal("expected new branch to be active")
	}
}

func TestGetOrCreateBranchRecordsBranchPoint(t *testing.T) {
	cleanup := setupBranchServiceTestDB(t)
	defer cleanup()

	doc := db.Document{Title: "Doc"}
	if err := db.DB.Create(&doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	fromVersion := uint(42)
	svc := NewBranchService(db.DB)
	branch, err := svc.GetOrCreate(doc.ID, "feature", &fromVersion)
	if err != nil {
		t.Fatalf("get-or-create returned error: %v", err)
	}
	if branch.CreatedFromID == nil || *branch.CreatedFromID != fromVersion {
		t.Fatalf("expected branch point 42, got %v", branch.CreatedFromID)
	}
}

func TestMarkMergedIsTerminal(t *testing.T) {
	cleanup := setupBranchServiceTestDB(t)
	defer cleanup()

	doc := db.Document{Title: "Doc"}
	if err := db.DB.Create(&doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	svc := NewBranchService(db.DB)
	source, err := svc.GetOrCreate(doc.ID, "draft", nil)
	if err != nil {
		t.Fatalf("get-or-create returned error: %v", err)
	}
	target, err := svc.GetOrCreate(doc.ID, "main", nil)
	if err != nil {
		t.Fatalf("get-or-create returned error: %v", err)
	}

	merged, err := svc.MarkMerged(source.ID, target.ID)
	if err != nil {
		t.Fatalf("mark merged returned error: %v", err)
	}
	if merged.IsActive {
		t.Fatal("merged branch must be inactive")
	}
	if merged.MergedAt == nil {
		t.Fatal("expected mergedAt to be set")
	}
	if merged.MergedIntoID == nil || *merged.MergedIntoID != target.ID {
		t.Fatalf("expected mergedInto %d, got %v", target.ID, merged.MergedIntoID)
	}

	if _, err := svc.MarkMerged(source.ID, target.ID); !errors.Is(err, ErrBranchAlreadyMerged) {
		t.Fatalf("expected ErrBranchAlreadyMerged on second merge, got %v", err)
	}
}

func TestGetBranchNotFound(t *testing.T) {
	cleanup := setupBranchServiceTestDB(t)
	defer cleanup()

	svc := NewBranchService(db.DB)
	if _, err := svc.Get(12345); !errors.Is(err, ErrBranchNotFound) {
		t.Fatalf("expected ErrBranchNotFound, got %v", err)
	}
	if _, err := svc.MarkMerged(12345, 1); !errors.Is(err, ErrBranchNotFound) {
		t.Fatalf("expected ErrBranchNotFound, got %v", err)
	}
}
