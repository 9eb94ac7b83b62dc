package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Validation errors ---

// Validation creates a new AppError for invalid input.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// PayloadTooLarge creates a new AppError for an upload exceeding the size limit.
func PayloadTooLarge(size, maxSize int64) *AppError {
	return &AppError{
		Code:       ErrCodePayloadTooLarge,
		Message:    fmt.Sprintf("Payload of %d bytes exceeds the maximum of %d bytes.", size, maxSize),
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"size": size, "max_size": maxSize},
	}
}

// --- Lookup errors ---

// ObjectNotFound creates a new AppError for a missing object-store key.
func ObjectNotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodeObjectNotFound, Message: fmt.Sprintf("No object stored under key %q.", key),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// FileNotFound creates a new AppError for a missing file metadata record.
func FileNotFound(fileID string) *AppError {
	return &AppError{
		Code: ErrCodeFileNotFound, Message: fmt.Sprintf("File %s was not found.", fileID),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"file_id": fileID},
	}
}

// --- Storage errors ---

// StorageTransient creates a new AppError for a retryable storage failure.
func StorageTransient(operation, key string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStorageTransient,
		Message:    fmt.Sprintf("Storage operation %s failed transiently for key %q.", operation, key),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"operation": operation, "key": key},
		Cause:   cause,
	}
}

// StorageFailed creates a new AppError for an exhausted or permanent storage failure.
func StorageFailed(operation, key string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStorageFailed,
		Message:    fmt.Sprintf("Storage operation %s failed for key %q.", operation, key),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"operation": operation, "key": key},
		Cause:   cause,
	}
}

// --- Processing errors ---

// SecurityViolation creates a new AppError carrying the triggered threat codes.
func SecurityViolation(fileID string, threats []string) *AppError {
	return &AppError{
		Code:       ErrCodeSecurityViolation,
		Message:    fmt.Sprintf("File %s failed the security check: %s.", fileID, strings.Join(threats, ", ")),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"file_id": fileID, "threats": threats},
	}
}

// InvalidProcessingState creates a new AppError for a state-machine precondition violation.
func InvalidProcessingState(fileID, current, reason string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidProcessingState,
		Message:    fmt.Sprintf("File %s is in state %s: %s.", fileID, current, reason),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"file_id": fileID, "status": current},
	}
}

// ProcessingFailed creates a new AppError for a failed pipeline operation.
func ProcessingFailed(fileID, operation, reason string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeProcessingFailed,
		Message:    fmt.Sprintf("Processing operation %s failed for file %s: %s.", operation, fileID, reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"file_id": fileID, "operation": operation, "reason": reason},
		Cause:   cause,
	}
}

// CommandTimeout creates a new AppError for an external tool killed on deadline.
func CommandTimeout(operation string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeCommandTimeout,
		Message:    fmt.Sprintf("External command for %s exceeded its deadline and was killed.", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: false,
		Details: map[string]any{"operation": operation, "reason": "timeout"},
		Cause:   cause,
	}
}

// --- Internal errors ---

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
