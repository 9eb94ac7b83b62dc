package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors (never retried)
const (
	// ErrCodeValidation indicates a bad key, buffer, metadata or options value.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
	// ErrCodePayloadTooLarge indicates an upload exceeding the configured maximum size.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Lookup errors
const (
	// ErrCodeObjectNotFound indicates the object store holds nothing under the key.
	ErrCodeObjectNotFound ErrorCode = "OBJECT_NOT_FOUND"
	// ErrCodeFileNotFound indicates no metadata record exists for the file id.
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
)

// Storage errors
const (
	// ErrCodeStorageTransient indicates a network/timeout/5xx-class failure
	// that is safe to retry.
	ErrCodeStorageTransient ErrorCode = "STORAGE_TRANSIENT"
	// ErrCodeStorageFailed indicates a storage operation that exhausted its
	// retries or failed permanently.
	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
)

// Processing errors
const (
	// ErrCodeSecurityViolation indicates the file failed the pre-processing
	// security check.
	ErrCodeSecurityViolation ErrorCode = "SECURITY_VIOLATION"
	// ErrCodeInvalidProcessingState indicates a state-machine precondition was
	// violated, e.g. processing a file that is already PROCESSING.
	ErrCodeInvalidProcessingState ErrorCode = "INVALID_PROCESSING_STATE"
	// ErrCodeProcessingFailed indicates a pipeline step failed.
	ErrCodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
	// ErrCodeCommandTimeout indicates an external tool invocation was killed
	// after exceeding its deadline.
	ErrCodeCommandTimeout ErrorCode = "COMMAND_TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStorageTransient: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
