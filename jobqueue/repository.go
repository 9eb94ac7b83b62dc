package jobqueue

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/skillsenselab/filevault/database"
	"github.com/skillsenselab/filevault/errors"
)

// Repository persists job rows. The queue goes through it on every status
// change so queued work survives a restart.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, id string) (*Job, error)
	// ListRunnable returns jobs left in QUEUED or ACTIVE status, used to
	// reload the scheduler after a restart.
	ListRunnable(ctx context.Context) ([]Job, error)
	Delete(ctx context.Context, ids []string) error
}

// GormRepository stores jobs through the shared database wrapper.
type GormRepository struct {
	db *database.DB
}

// NewGormRepository creates the repository and migrates its schema.
func NewGormRepository(db *database.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Job{}); err != nil {
		return nil, fmt.Errorf("jobqueue migration failed: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, job *Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (r *GormRepository) Update(ctx context.Context, job *Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ObjectNotFound(id)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &job, nil
}

func (r *GormRepository) ListRunnable(ctx context.Context) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{StatusQueued, StatusActive}).
		Order("created_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, errors.Internal(err)
	}
	return jobs, nil
}

func (r *GormRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&Job{}, "id IN ?", ids).Error; err != nil {
		return errors.Internal(err)
	}
	return nil
}

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{jobs: make(map[string]*Job)}
}

func (r *MemoryRepository) Create(_ context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	r.jobs[stored.ID] = &stored
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	r.jobs[stored.ID] = &stored
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.ObjectNotFound(id)
	}
	copied := *job
	return &copied, nil
}

func (r *MemoryRepository) ListRunnable(_ context.Context) ([]Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Job
	for _, job := range r.jobs {
		if job.Status == StatusQueued || job.Status == StatusActive {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.jobs, id)
	}
	return nil
}

// Len reports how many rows exist, for retention tests.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
