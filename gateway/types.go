package gateway

import (
	"context"
	"io"
	"time"

	"github.com/skillsenselab/filevault/objectstore"
)

// ObjectStore is the transport the gateway drives. *objectstore.Client
// satisfies it; tests substitute a fake.
type ObjectStore interface {
	Bucket() string
	PutObject(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) (string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, objectstore.ObjectInfo, error)
	HeadObject(ctx context.Context, key string) (objectstore.ObjectInfo, error)
	CopyObject(ctx context.Context, sourceKey, destKey string) error
	DeleteObject(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, max int32) ([]objectstore.ObjectInfo, error)
	CreateMultipartUpload(ctx context.Context, key, contentType string, metadata map[string]string) (string, error)
	UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader) (string, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []objectstore.CompletedPart) (string, error)
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UploadMetadata describes the payload being stored. ContentType and UserID
// are required.
type UploadMetadata struct {
	ContentType string
	UserID      string
	Filename    string
	Extra       map[string]string
}

// UploadResult reports a durable write.
type UploadResult struct {
	StorageKey     string
	ETag           string
	Location       string
	UploadDuration time.Duration
}

// DownloadResult carries an object body and its head metadata.
type DownloadResult struct {
	Body     []byte
	Metadata objectstore.ObjectInfo
}

// Presign operation names.
const (
	OperationGet = "get"
	OperationPut = "put"
)

// PresignOptions configures a presigned URL grant.
type PresignOptions struct {
	Key           string
	Operation     string
	ExpiresIn     time.Duration
	IPRestriction []string
	UserAgent     string
}

// Restrictions echoes the caller-supplied constraints on a grant.
type Restrictions struct {
	IPAddress  []string
	UserAgent  string
	Operations []string
}

// PresignedURLGrant is a derived, never-persisted grant.
type PresignedURLGrant struct {
	URL          string
	ExpiresAt    time.Time
	Restrictions Restrictions
}
