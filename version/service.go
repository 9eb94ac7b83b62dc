package version

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/keys"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
)

// Copier performs server-side object copies. *gateway.Gateway satisfies it.
type Copier interface {
	CopyObject(ctx context.Context, sourceKey, destKey string) error
}

// CreateOptions configures a snapshot.
type CreateOptions struct {
	Description string
	ChangeType  string
	UserID      string
}

// Service creates and lists file snapshots.
type Service struct {
	files    metadata.Repository
	versions Repository
	copier   Copier
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a versioning service.
func NewService(files metadata.Repository, versions Repository, copier Copier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		files:    files,
		versions: versions,
		copier:   copier,
		log:      log.WithComponent("version"),
		now:      time.Now,
	}
}

// CreateVersion snapshots the file's live object to a versioned key.
//
// The parent version counter is incremented only after the copy succeeds.
// A missing file surfaces as-is; every other failure is wrapped as a
// processing error tagged version_creation.
func (s *Service) CreateVersion(ctx context.Context, fileID string, opts CreateOptions) (*FileVersion, error) {
	file, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	versionNumber := file.VersionCount + 1
	versionedKey := keys.Version(fileID, versionNumber, s.now())

	if err := s.copier.CopyObject(ctx, file.StorageKey, versionedKey); err != nil {
		return nil, errors.ProcessingFailed(fileID, "version_creation", "object copy failed", err)
	}

	changeType := opts.ChangeType
	if changeType == "" {
		changeType = ChangeManual
	}
	record := &FileVersion{
		ID:            uuid.NewString(),
		FileID:        fileID,
		VersionNumber: versionNumber,
		StorageKey:    versionedKey,
		Size:          file.Size,
		Checksum:      file.ChecksumSHA256,
		ChangeType:    changeType,
		Description:   opts.Description,
		CreatedBy:     opts.UserID,
		CreatedAt:     s.now(),
	}
	if err := s.versions.Create(ctx, record); err != nil {
		return nil, errors.ProcessingFailed(fileID, "version_creation", "version record persist failed", err)
	}

	if _, err := s.files.IncrementVersionCount(ctx, fileID); err != nil {
		return nil, errors.ProcessingFailed(fileID, "version_creation", "version counter update failed", err)
	}

	s.log.Info("version created", logger.Fields(
		logger.FieldFileID, fileID,
		logger.FieldVersion, versionNumber,
		logger.FieldKey, versionedKey,
	))
	return record, nil
}

// ListVersions returns all snapshots for a file, newest first.
func (s *Service) ListVersions(ctx context.Context, fileID string) ([]FileVersion, error) {
	if _, err := s.files.FindByID(ctx, fileID); err != nil {
		return nil, err
	}
	return s.versions.ListByFile(ctx, fileID)
}

// RestoreVersion copies a snapshot back over the live object key and
// records the restore as a new snapshot.
func (s *Service) RestoreVersion(ctx context.Context, fileID string, versionNumber int, userID string) (*FileVersion, error) {
	file, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.versions.FindByNumber(ctx, fileID, versionNumber)
	if err != nil {
		return nil, err
	}

	// Snapshot the current live object first so the restore is reversible.
	if _, err := s.CreateVersion(ctx, fileID, CreateOptions{
		ChangeType:  ChangeRestore,
		Description: "pre-restore snapshot",
		UserID:      userID,
	}); err != nil {
		return nil, err
	}

	if err := s.copier.CopyObject(ctx, snapshot.StorageKey, file.StorageKey); err != nil {
		return nil, errors.ProcessingFailed(fileID, "version_creation", "restore copy failed", err)
	}

	s.log.Info("version restored", logger.Fields(
		logger.FieldFileID, fileID,
		logger.FieldVersion, versionNumber,
	))
	return snapshot, nil
}
