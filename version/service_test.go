package version

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
)

type fakeCopier struct {
	copies  [][2]string
	failErr error
}

func (c *fakeCopier) CopyObject(_ context.Context, src, dst string) error {
	if c.failErr != nil {
		return c.failErr
	}
	c.copies = append(c.copies, [2]string{src, dst})
	return nil
}

func newTestService(t *testing.T) (*Service, *metadata.MemoryRepository, *MemoryRepository, *fakeCopier) {
	t.Helper()
	files := metadata.NewMemoryRepository()
	versions := NewMemoryRepository()
	copier := &fakeCopier{}
	svc := NewService(files, versions, copier, logger.Nop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, files, versions, copier
}

func seedFile(t *testing.T, files *metadata.MemoryRepository) *metadata.FileMetadata {
	t.Helper()
	file := &metadata.FileMetadata{
		ID:             "file-1",
		StorageKey:     "file-1/original.pdf",
		ContentType:    "application/pdf",
		Size:           4096,
		ChecksumSHA256: "abc123",
	}
	if err := files.Create(context.Background(), file); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestCreateVersion(t *testing.T) {
	svc, files, _, copier := newTestService(t)
	seedFile(t, files)
	ctx := context.Background()

	v, err := svc.CreateVersion(ctx, "file-1", CreateOptions{UserID: "user-1"})
	if err != nil {
		t.Fatalf("CreateVersion returned error: %v", err)
	}
	if v.VersionNumber != 2 {
		t.Errorf("expected version number 2, got %d", v.VersionNumber)
	}
	if v.StorageKey != "file-1/versions/2/1700000000000" {
		t.Errorf("unexpected versioned key %q", v.StorageKey)
	}
	if v.ChangeType != ChangeManual {
		t.Errorf("expected default change type %q, got %q", ChangeManual, v.ChangeType)
	}
	if len(copier.copies) != 1 || copier.copies[0][0] != "file-1/original.pdf" {
		t.Errorf("unexpected copy calls: %v", copier.copies)
	}

	stored, _ := files.FindByID(ctx, "file-1")
	if stored.VersionCount != 2 {
		t.Errorf("expected counter 2, got %d", stored.VersionCount)
	}
}

func TestCreateVersion_CopyFailureDoesNotIncrementCounter(t *testing.T) {
	svc, files, versions, copier := newTestService(t)
	seedFile(t, files)
	copier.failErr = errors.StorageFailed("copyObject", "file-1/original.pdf", io.ErrClosedPipe)
	ctx := context.Background()

	_, err := svc.CreateVersion(ctx, "file-1", CreateOptions{})
	if !errors.HasCode(err, errors.ErrCodeProcessingFailed) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeProcessingFailed, err)
	}
	appErr, _ := errors.AsAppError(err)
	if op, _ := appErr.Details["operation"].(string); op != "version_creation" {
		t.Errorf("expected version_creation tag, got %v", appErr.Details)
	}

	stored, _ := files.FindByID(ctx, "file-1")
	if stored.VersionCount != 1 {
		t.Errorf("counter must stay at 1 after copy failure, got %d", stored.VersionCount)
	}
	list, _ := versions.ListByFile(ctx, "file-1")
	if len(list) != 0 {
		t.Errorf("no version record should exist after copy failure, got %d", len(list))
	}
}

func TestCreateVersion_FileNotFoundPropagates(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.CreateVersion(context.Background(), "missing", CreateOptions{})
	if !errors.HasCode(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected %s, got %v", errors.ErrCodeFileNotFound, err)
	}
}

func TestCreateVersion_NumbersAreStrictlyIncreasing(t *testing.T) {
	svc, files, _, _ := newTestService(t)
	seedFile(t, files)
	ctx := context.Background()

	for want := 2; want <= 4; want++ {
		v, err := svc.CreateVersion(ctx, "file-1", CreateOptions{})
		if err != nil {
			t.Fatalf("CreateVersion %d returned error: %v", want, err)
		}
		if v.VersionNumber != want {
			t.Errorf("expected version %d, got %d", want, v.VersionNumber)
		}
	}
}

func TestListVersions_NewestFirst(t *testing.T) {
	svc, files, _, _ := newTestService(t)
	seedFile(t, files)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateVersion(ctx, "file-1", CreateOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := svc.ListVersions(ctx, "file-1")
	if err != nil {
		t.Fatalf("ListVersions returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].VersionNumber <= list[i].VersionNumber {
			t.Errorf("list not ordered newest first: %d then %d", list[i-1].VersionNumber, list[i].VersionNumber)
		}
	}
}

func TestRestoreVersion(t *testing.T) {
	svc, files, _, copier := newTestService(t)
	seedFile(t, files)
	ctx := context.Background()

	v, err := svc.CreateVersion(ctx, "file-1", CreateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	restored, err := svc.RestoreVersion(ctx, "file-1", v.VersionNumber, "user-1")
	if err != nil {
		t.Fatalf("RestoreVersion returned error: %v", err)
	}
	if restored.VersionNumber != v.VersionNumber {
		t.Errorf("expected restored version %d, got %d", v.VersionNumber, restored.VersionNumber)
	}

	last := copier.copies[len(copier.copies)-1]
	if last[0] != v.StorageKey || last[1] != "file-1/original.pdf" {
		t.Errorf("restore should copy snapshot over live key, got %v", last)
	}
	if !strings.Contains(copier.copies[len(copier.copies)-2][1], "/versions/") {
		t.Errorf("restore should snapshot current state first, got %v", copier.copies)
	}
}
