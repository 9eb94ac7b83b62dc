package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/objectstore"
	"github.com/skillsenselab/filevault/resilience"
	"github.com/skillsenselab/filevault/validation"
)

// Gateway wraps an object store client with validation, size-based strategy
// selection, retry/backoff and presigned URL policy.
type Gateway struct {
	store ObjectStore
	cfg   Config
	log   *logger.Logger
	parts *resilience.Bulkhead
}

// New creates a storage gateway.
func New(store ObjectStore, cfg Config, log *logger.Logger) (*Gateway, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Gateway{
		store: store,
		cfg:   cfg,
		log:   log.WithComponent("gateway"),
		parts: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "multipart-parts",
			MaxConcurrent: cfg.MaxInFlightParts,
			MaxWait:       time.Hour,
		}),
	}, nil
}

// retryConfig builds the per-call retry policy: transient-only, exponential
// backoff base*2^(attempt-1).
func (g *Gateway) retryConfig(operation, key string) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    g.cfg.RetryAttempts,
		InitialBackoff: g.cfg.RetryBackoff,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
		RetryIf:        errors.IsRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			g.log.Warn("retrying storage call", logger.Fields(
				logger.FieldOperation, operation,
				logger.FieldKey, key,
				logger.FieldAttempt, attempt,
				logger.FieldError, err.Error(),
			))
		},
	}
}

// withRetry runs fn under the gateway retry policy. An exhausted transient
// failure is wrapped as a storage failure naming the operation and key.
func withRetry[T any](ctx context.Context, g *Gateway, operation, key string, fn func() (T, error)) (T, error) {
	result, err := resilience.Retry(ctx, g.retryConfig(operation, key), fn)
	if err != nil && errors.HasCode(err, errors.ErrCodeStorageTransient) {
		return result, errors.StorageFailed(operation, key, err)
	}
	return result, err
}

// Upload durably stores data under key. Payloads above the multipart
// threshold are transferred as fixed-size parts with bounded concurrency;
// smaller payloads are a single PUT.
func (g *Gateway) Upload(ctx context.Context, key string, data []byte, meta UploadMetadata) (*UploadResult, error) {
	v := validation.New()
	v.Required("key", key)
	v.Required("metadata.content_type", meta.ContentType)
	v.Required("metadata.user_id", meta.UserID)
	v.Custom(len(data) > 0, "data", "must not be empty")
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}
	if int64(len(data)) > g.cfg.MaxFileSize {
		return nil, errors.PayloadTooLarge(int64(len(data)), g.cfg.MaxFileSize)
	}

	start := time.Now()

	var etag string
	var err error
	if int64(len(data)) > g.cfg.MultipartThreshold {
		etag, err = g.uploadMultipart(ctx, key, data, meta)
	} else {
		etag, err = withRetry(ctx, g, "upload", key, func() (string, error) {
			return g.store.PutObject(ctx, key, bytes.NewReader(data), meta.ContentType, objectMetadata(meta))
		})
	}
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	g.log.Info("object stored", logger.Fields(
		logger.FieldKey, key,
		logger.FieldSizeBytes, int64(len(data)),
		logger.FieldContentType, meta.ContentType,
		logger.FieldDuration, duration.Milliseconds(),
	))

	return &UploadResult{
		StorageKey:     key,
		ETag:           etag,
		Location:       fmt.Sprintf("%s/%s", g.store.Bucket(), key),
		UploadDuration: duration,
	}, nil
}

// uploadMultipart transfers data as fixed-size parts. The part size never
// varies with the total object size; only the last part may be smaller.
func (g *Gateway) uploadMultipart(ctx context.Context, key string, data []byte, meta UploadMetadata) (string, error) {
	uploadID, err := withRetry(ctx, g, "createMultipartUpload", key, func() (string, error) {
		return g.store.CreateMultipartUpload(ctx, key, meta.ContentType, objectMetadata(meta))
	})
	if err != nil {
		return "", err
	}

	partCount := int((int64(len(data)) + g.cfg.PartSize - 1) / g.cfg.PartSize)
	etags := make([]string, partCount)

	partCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < partCount; i++ {
		partNumber := int32(i + 1)
		offset := int64(i) * g.cfg.PartSize
		end := offset + g.cfg.PartSize
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		part := data[offset:end]

		wg.Add(1)
		go func() {
			defer wg.Done()
			bhErr := g.parts.Execute(partCtx, func() error {
				etag, partErr := withRetry(partCtx, g, "uploadPart", key, func() (string, error) {
					return g.store.UploadPart(partCtx, key, uploadID, partNumber, bytes.NewReader(part))
				})
				if partErr != nil {
					return partErr
				}
				etags[partNumber-1] = etag
				return nil
			})
			if bhErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = bhErr
					cancel()
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		if abortErr := g.store.AbortMultipartUpload(ctx, key, uploadID); abortErr != nil {
			g.log.Warn("failed to abort multipart upload", logger.ErrorFields("abortMultipartUpload", abortErr))
		}
		return "", firstErr
	}

	completed := make([]objectstore.CompletedPart, partCount)
	for i, etag := range etags {
		completed[i] = objectstore.CompletedPart{PartNumber: int32(i + 1), ETag: etag}
	}
	return withRetry(ctx, g, "completeMultipartUpload", key, func() (string, error) {
		return g.store.CompleteMultipartUpload(ctx, key, uploadID, completed)
	})
}

// Download fetches the object body and head metadata for key.
func (g *Gateway) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if appErr := validation.New().Required("key", key).Validate(); appErr != nil {
		return nil, appErr
	}

	type fetched struct {
		body []byte
		info objectstore.ObjectInfo
	}
	result, err := withRetry(ctx, g, "download", key, func() (fetched, error) {
		rc, info, getErr := g.store.GetObject(ctx, key)
		if getErr != nil {
			return fetched{}, getErr
		}
		defer rc.Close()
		body, readErr := io.ReadAll(rc)
		if readErr != nil {
			return fetched{}, errors.StorageTransient("download", key, readErr)
		}
		return fetched{body: body, info: info}, nil
	})
	if err != nil {
		return nil, err
	}
	return &DownloadResult{Body: result.body, Metadata: result.info}, nil
}

// GetObjectInfo returns head metadata without transferring the body.
func (g *Gateway) GetObjectInfo(ctx context.Context, key string) (objectstore.ObjectInfo, error) {
	if appErr := validation.New().Required("key", key).Validate(); appErr != nil {
		return objectstore.ObjectInfo{}, appErr
	}
	return withRetry(ctx, g, "getObjectInfo", key, func() (objectstore.ObjectInfo, error) {
		return g.store.HeadObject(ctx, key)
	})
}

// CopyObject performs a server-side copy, used by versioning.
func (g *Gateway) CopyObject(ctx context.Context, sourceKey, destKey string) error {
	v := validation.New().Required("source_key", sourceKey).Required("dest_key", destKey)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	_, err := withRetry(ctx, g, "copyObject", sourceKey, func() (struct{}, error) {
		return struct{}{}, g.store.CopyObject(ctx, sourceKey, destKey)
	})
	return err
}

// DeleteObject removes an object. Deleting an absent key is not an error.
func (g *Gateway) DeleteObject(ctx context.Context, key string) error {
	if appErr := validation.New().Required("key", key).Validate(); appErr != nil {
		return appErr
	}
	_, err := withRetry(ctx, g, "deleteObject", key, func() (struct{}, error) {
		return struct{}{}, g.store.DeleteObject(ctx, key)
	})
	return err
}

// GeneratePresignedURL issues a time-limited grant for direct object access.
// The expiry is clamped to the configured maximum; restrictions are echoed
// back on the grant for the caller to enforce at its edge.
func (g *Gateway) GeneratePresignedURL(ctx context.Context, opts PresignOptions) (*PresignedURLGrant, error) {
	if appErr := validation.New().Required("key", opts.Key).Validate(); appErr != nil {
		return nil, appErr
	}

	expiry := opts.ExpiresIn
	if expiry <= 0 {
		expiry = g.cfg.PresignExpiry
	}
	if expiry > g.cfg.MaxPresignExpiry {
		expiry = g.cfg.MaxPresignExpiry
	}

	operation := opts.Operation
	if operation == "" {
		operation = OperationGet
	}

	url, err := withRetry(ctx, g, "generatePresignedUrl", opts.Key, func() (string, error) {
		if operation == OperationPut {
			return g.store.PresignPut(ctx, opts.Key, expiry)
		}
		return g.store.PresignGet(ctx, opts.Key, expiry)
	})
	if err != nil {
		return nil, err
	}

	return &PresignedURLGrant{
		URL:       url,
		ExpiresAt: time.Now().Add(expiry),
		Restrictions: Restrictions{
			IPAddress:  opts.IPRestriction,
			UserAgent:  opts.UserAgent,
			Operations: []string{operation},
		},
	}, nil
}

// CheckConnection probes the backend with a bounded listing call. It never
// returns an error; any failure reports false.
func (g *Gateway) CheckConnection(ctx context.Context) bool {
	_, err := g.store.List(ctx, "", 1)
	if err != nil {
		g.log.Warn("storage connection check failed", logger.ErrorFields("checkConnection", err))
		return false
	}
	return true
}

// CDNURL returns the public CDN address for a storage key. Pure string
// concatenation; no signing at this layer.
func (g *Gateway) CDNURL(storageKey string) string {
	return fmt.Sprintf("%s/%s", g.cfg.CDNBaseURL, storageKey)
}

func objectMetadata(meta UploadMetadata) map[string]string {
	m := map[string]string{
		"user-id": meta.UserID,
	}
	if meta.Filename != "" {
		m["filename"] = meta.Filename
	}
	for k, v := range meta.Extra {
		m[k] = v
	}
	return m
}
