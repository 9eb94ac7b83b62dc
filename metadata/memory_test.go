package metadata

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/skillsenselab/filevault/errors"
)

func newTestFile() *FileMetadata {
	return &FileMetadata{
		ID:          uuid.NewString(),
		StorageKey:  "docs/report.pdf",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		UserID:      "user-1",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	file := newTestFile()
	if err := repo.Create(ctx, file); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := repo.FindByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.ProcessingStatus != StatusPending {
		t.Errorf("expected PENDING, got %s", stored.ProcessingStatus)
	}
	if stored.VirusScanStatus != ScanPending {
		t.Errorf("expected scan PENDING, got %s", stored.VirusScanStatus)
	}
	if stored.VersionCount != 1 {
		t.Errorf("expected version count 1, got %d", stored.VersionCount)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.HasCode(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeFileNotFound, err)
	}
}

func TestTransitionStatus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	file := newTestFile()
	if err := repo.Create(ctx, file); err != nil {
		t.Fatal(err)
	}

	if err := repo.TransitionStatus(ctx, file.ID, StatusPending, StatusProcessing); err != nil {
		t.Fatalf("transition PENDING->PROCESSING failed: %v", err)
	}

	// A second claim against the same expected status must fail.
	err := repo.TransitionStatus(ctx, file.ID, StatusPending, StatusProcessing)
	if !errors.HasCode(err, errors.ErrCodeInvalidProcessingState) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeInvalidProcessingState, err)
	}

	if err := repo.TransitionStatus(ctx, file.ID, StatusProcessing, StatusCompleted); err != nil {
		t.Fatalf("transition PROCESSING->COMPLETED failed: %v", err)
	}
	stored, _ := repo.FindByID(ctx, file.ID)
	if stored.ProcessingStatus != StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.ProcessingStatus)
	}
}

func TestIncrementVersionCount(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	file := newTestFile()
	if err := repo.Create(ctx, file); err != nil {
		t.Fatal(err)
	}

	n, err := repo.IncrementVersionCount(ctx, file.ID)
	if err != nil {
		t.Fatalf("IncrementVersionCount returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}

	if _, err := repo.IncrementVersionCount(ctx, "missing"); !errors.HasCode(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected file not found, got %v", err)
	}
}

func TestUpdateColumns(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	file := newTestFile()
	if err := repo.Create(ctx, file); err != nil {
		t.Fatal(err)
	}

	err := repo.Update(ctx, file.ID, map[string]any{
		"virus_scan_status": ScanClean,
		"tags":              map[string]string{"team": "billing"},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	stored, _ := repo.FindByID(ctx, file.ID)
	if stored.VirusScanStatus != ScanClean {
		t.Errorf("expected CLEAN, got %s", stored.VirusScanStatus)
	}
	if stored.Tags["team"] != "billing" {
		t.Errorf("tags not applied: %v", stored.Tags)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(StatusPending) || IsTerminal(StatusProcessing) {
		t.Error("pending/processing must not be terminal")
	}
	if !IsTerminal(StatusCompleted) || !IsTerminal(StatusFailed) {
		t.Error("completed/failed must be terminal")
	}
}
