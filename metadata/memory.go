package metadata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/filevault/errors"
)

// MemoryRepository is an in-memory Repository used in tests and for
// running without a database.
type MemoryRepository struct {
	mu    sync.Mutex
	files map[string]*FileMetadata
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[string]*FileMetadata)}
}

func (r *MemoryRepository) Create(_ context.Context, file *FileMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *file
	if stored.ProcessingStatus == "" {
		stored.ProcessingStatus = StatusPending
	}
	if stored.VirusScanStatus == "" {
		stored.VirusScanStatus = ScanPending
	}
	if stored.VersionCount == 0 {
		stored.VersionCount = 1
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.files[stored.ID] = &stored
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*FileMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return nil, errors.FileNotFound(id)
	}
	copied := *file
	return &copied, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return errors.FileNotFound(id)
	}
	applyUpdates(file, updates)
	file.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) TransitionStatus(_ context.Context, id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return errors.FileNotFound(id)
	}
	if file.ProcessingStatus != from {
		return errors.InvalidProcessingState(id, file.ProcessingStatus, fmt.Sprintf("expected status %s", from))
	}
	file.ProcessingStatus = to
	file.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) IncrementVersionCount(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return 0, errors.FileNotFound(id)
	}
	file.VersionCount++
	file.UpdatedAt = time.Now()
	return file.VersionCount, nil
}

func applyUpdates(file *FileMetadata, updates map[string]any) {
	for column, value := range updates {
		switch column {
		case "processing_status":
			file.ProcessingStatus, _ = value.(string)
		case "virus_scan_status":
			file.VirusScanStatus, _ = value.(string)
		case "storage_key":
			file.StorageKey, _ = value.(string)
		case "content_type":
			file.ContentType, _ = value.(string)
		case "size":
			if n, ok := value.(int64); ok {
				file.Size = n
			}
		case "tags":
			if tags, ok := value.(map[string]string); ok {
				file.Tags = tags
			}
		}
	}
}
