// Package resilience provides patterns for fault-tolerant storage access.
//
// This package includes:
//   - Retry: retries failed operations with exponential backoff
//   - Bulkhead: limits concurrent access, used to cap in-flight multipart parts
//   - CircuitBreaker: fails fast when an external tool keeps crashing
//
// The gateway combines Retry with a transient-only RetryIf so validation
// failures surface immediately while network-class failures are retried:
//
//	result, err := resilience.Retry(ctx, cfg, func() (UploadResult, error) {
//	    return client.PutObject(ctx, key, body)
//	})
package resilience
