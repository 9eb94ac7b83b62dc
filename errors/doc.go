// Package errors provides unified error handling for the filevault core.
// It implements structured error types with a closed set of error codes,
// retryable detection, and a recommended HTTP status carried for the
// outermost transport boundary only.
package errors
