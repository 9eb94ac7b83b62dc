package metadata

import "context"

// Repository is the persistence boundary for file records.
type Repository interface {
	// Create inserts a new record.
	Create(ctx context.Context, file *FileMetadata) error

	// FindByID returns the record or a file-not-found error.
	FindByID(ctx context.Context, id string) (*FileMetadata, error)

	// Update applies the given column updates to the record.
	Update(ctx context.Context, id string, updates map[string]any) error

	// TransitionStatus conditionally moves processing status from one value
	// to another. It fails with an invalid-processing-state error when the
	// row no longer holds the expected status.
	TransitionStatus(ctx context.Context, id, from, to string) error

	// IncrementVersionCount bumps the version counter by one and returns
	// the new value.
	IncrementVersionCount(ctx context.Context, id string) (int, error)
}
