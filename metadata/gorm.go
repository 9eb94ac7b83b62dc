package metadata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillsenselab/filevault/database"
	"github.com/skillsenselab/filevault/errors"
)

// GormRepository persists file records through the shared database wrapper.
type GormRepository struct {
	db *database.DB
}

// NewGormRepository creates the repository and migrates its schema.
func NewGormRepository(db *database.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&FileMetadata{}); err != nil {
		return nil, fmt.Errorf("metadata migration failed: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, file *FileMetadata) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*FileMetadata, error) {
	var file FileMetadata
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.FileNotFound(id)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &file, nil
}

func (r *GormRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&FileMetadata{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return errors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.FileNotFound(id)
	}
	return nil
}

func (r *GormRepository) TransitionStatus(ctx context.Context, id, from, to string) error {
	result := r.db.WithContext(ctx).Model(&FileMetadata{}).
		Where("id = ? AND processing_status = ?", id, from).
		Update("processing_status", to)
	if result.Error != nil {
		return errors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return errors.InvalidProcessingState(id, current.ProcessingStatus,
			fmt.Sprintf("expected status %s", from))
	}
	return nil
}

func (r *GormRepository) IncrementVersionCount(ctx context.Context, id string) (int, error) {
	var count int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&FileMetadata{}).
			Where("id = ?", id).
			Update("version_count", gorm.Expr("version_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.FileNotFound(id)
		}
		var file FileMetadata
		if err := tx.WithContext(ctx).Select("version_count").First(&file, "id = ?", id).Error; err != nil {
			return err
		}
		count = file.VersionCount
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return 0, err
		}
		return 0, errors.Internal(err)
	}
	return count, nil
}
