// Package gateway provides the resilient storage gateway on top of the
// object store client.
//
// It validates arguments, selects between single-shot and multipart upload
// based on payload size, retries transient failures with exponential
// backoff, issues presigned URL grants under a bounded expiry policy, and
// exposes a health probe that never fails hard.
//
// Validation failures surface immediately; only network/timeout/5xx-class
// failures are retried. Exhausting all attempts surfaces the last error as a
// storage failure naming the operation and key.
package gateway
