package version

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/skillsenselab/filevault/database"
	"github.com/skillsenselab/filevault/errors"
)

// Repository persists snapshot records.
type Repository interface {
	Create(ctx context.Context, v *FileVersion) error
	ListByFile(ctx context.Context, fileID string) ([]FileVersion, error)
	FindByNumber(ctx context.Context, fileID string, number int) (*FileVersion, error)
}

// GormRepository stores snapshots through the shared database wrapper.
type GormRepository struct {
	db *database.DB
}

// NewGormRepository creates the repository and migrates its schema.
func NewGormRepository(db *database.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&FileVersion{}); err != nil {
		return nil, fmt.Errorf("version migration failed: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, v *FileVersion) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (r *GormRepository) ListByFile(ctx context.Context, fileID string) ([]FileVersion, error) {
	var versions []FileVersion
	err := r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, errors.Internal(err)
	}
	return versions, nil
}

func (r *GormRepository) FindByNumber(ctx context.Context, fileID string, number int) (*FileVersion, error) {
	var v FileVersion
	err := r.db.WithContext(ctx).
		First(&v, "file_id = ? AND version_number = ?", fileID, number).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ObjectNotFound(fmt.Sprintf("%s/versions/%d", fileID, number))
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &v, nil
}

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	mu       sync.Mutex
	versions []FileVersion
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, v *FileVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = append(r.versions, *v)
	return nil
}

func (r *MemoryRepository) ListByFile(_ context.Context, fileID string) ([]FileVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []FileVersion
	for _, v := range r.versions {
		if v.FileID == fileID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *MemoryRepository) FindByNumber(_ context.Context, fileID string, number int) (*FileVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.versions {
		if v.FileID == fileID && v.VersionNumber == number {
			copied := v
			return &copied, nil
		}
	}
	return nil, errors.ObjectNotFound(fmt.Sprintf("%s/versions/%d", fileID, number))
}
