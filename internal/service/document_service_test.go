package service

import (
	"errors"
	"testing"

	"github.com/draftsmith/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDocumentServiceTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Document{}); err != nil {
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

func TestDocumentCreateDefaultsToDraft(t *testing.T) {
	cleanup := setupDocumentServiceTestDB(t)
	defer cleanup()

	svc := NewDocumentService(db.DB)
	document, err := svc.Create(DocumentInput{
		Title:    "  Spaced title  ",
		Content:  "body",
		Keywords: []string{"go", "gorm"},
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if document.Title != "Spaced title" {
		t.Fatalf("expected trimmed title, got %q", document.Title)
	}
	if document.Status != DocumentStatusDraft {
		t.Fatalf("expected draft status, got %q", document.Status)
	}
	if got := document.KeywordList(); len(got) != 2 || got[1] != "gorm" {
		t.Fatalf("unexpected keyword list %v", got)
	}
}

func TestDocumentGetNotFound(t *testing.T) {
	cleanup := setupDocumentServiceTestDB(t)
	defer cleanup()

	svc := NewDocumentService(db.DB)
	if _, err := svc.Get(424242); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentUpdate(t *testing.T) {
	cleanup := setupDocumentServiceTestDB(t)
	defer cleanup()

	svc := NewDocumentService(db.DB)
	document, err := svc.Create(DocumentInput{Title: "Before", Content: "old"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	updated, err := svc.Update(document.ID, DocumentInput{
		Title:   "After",
		Content: "new",
		Status:  "published",
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Title != "After" || updated.Content != "new" {
		t.Fatalf("unexpected updated document %+v", updated)
	}
	if updated.Status != DocumentStatusPublished {
		t.Fatalf("expected published status, got %q", updated.Status)
	}
}

func TestDocumentApplySnapshotOverwritesHead(t *testing.T) {
	cleanup := setupDocumentServiceTestDB(t)
	defer cleanup()

	svc := NewDocumentService(db.DB)
	document, err := svc.Create(DocumentInput{Title: "Head", Content: "head body", Status: "published"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	applied, err := svc.ApplySnapshot(document.ID, ContentSnapshot{
		Title:        "Restored",
		Content:      "restored body",
		FocusKeyword: "restore",
	})
	if err != nil {
		t.Fatalf("apply snapshot returned error: %v", err)
	}

	if applied.Title != "Restored" || applied.Content != "restored body" {
		t.Fatalf("unexpected head %+v", applied)
	}
	// 快照未携带状态时保留原状态。
	if applied.Status != DocumentStatusPublished {
		t.Fatalf("expected status preserved, got %q", applied.Status)
	}
}

func TestDocumentListCountersAndSearch(t *testing.T) {
	cleanup := setupDocumentServiceTestDB(t)
	defer cleanup()

	svc := NewDocumentService(db.DB)
	seed := []DocumentInput{
		{Title: "Go versioning guide", Content: "alpha", Status: "published"},
		{Title: "Gin handlers", Content: "beta", Status: "draft"},
		{Title: "Unrelated", Content: "gamma", Status: "draft"},
	}
	for _, input := range seed {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("create returned error: %v", err)
		}
	}

	result, err := svc.List(DocumentFilter{})
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.PublishedCount != 1 || result.DraftCount != 2 {
		t.Fatalf("unexpected counters published=%d draft=%d", result.PublishedCount, result.DraftCount)
	}

	result, err = svc.List(DocumentFilter{Search: "versioning"})
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if result.Total != 1 || result.Documents[0].Title != "Go versioning guide" {
		t.Fatalf("unexpected search result %+v", result.Documents)
	}
}
