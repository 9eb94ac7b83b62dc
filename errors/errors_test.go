package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeObjectNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeObjectNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeObjectNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("OBJECT_NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeStorageTransient, "flaky backend", http.StatusBadGateway)
	if !err.Retryable {
		t.Error("STORAGE_TRANSIENT should be retryable")
	}
}

func TestAppError_ObjectNotFound(t *testing.T) {
	err := ObjectNotFound("docs/report.pdf")
	if err.Code != ErrCodeObjectNotFound {
		t.Errorf("expected OBJECT_NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["key"] != "docs/report.pdf" {
		t.Errorf("expected key detail, got %v", err.Details["key"])
	}
}

func TestAppError_PayloadTooLarge(t *testing.T) {
	err := PayloadTooLarge(600, 500)
	if err.Code != ErrCodePayloadTooLarge {
		t.Errorf("expected PAYLOAD_TOO_LARGE, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("PayloadTooLarge should not be retryable")
	}
	if err.Details["size"] != int64(600) || err.Details["max_size"] != int64(500) {
		t.Errorf("expected size details, got %v", err.Details)
	}
}

func TestAppError_StorageTransient_Retryable(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := StorageTransient("upload", "k", cause)
	if !err.Retryable {
		t.Error("StorageTransient should be retryable")
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Details["operation"] != "upload" {
		t.Errorf("expected operation detail, got %v", err.Details["operation"])
	}
}

func TestAppError_StorageFailed_NamesOperationAndKey(t *testing.T) {
	err := StorageFailed("copyObject", "a/b", fmt.Errorf("boom"))
	if err.Retryable {
		t.Error("StorageFailed should not be retryable")
	}
	if !strings.Contains(err.Message, "copyObject") || !strings.Contains(err.Message, "a/b") {
		t.Errorf("message should name operation and key, got %q", err.Message)
	}
}

func TestAppError_SecurityViolation_CarriesThreats(t *testing.T) {
	err := SecurityViolation("f1", []string{"oversized_file", "path_traversal"})
	if err.Code != ErrCodeSecurityViolation {
		t.Errorf("expected SECURITY_VIOLATION, got %s", err.Code)
	}
	threats, ok := err.Details["threats"].([]string)
	if !ok || len(threats) != 2 {
		t.Fatalf("expected 2 threat codes, got %v", err.Details["threats"])
	}
	if !strings.Contains(err.Message, "path_traversal") {
		t.Errorf("message should list threats, got %q", err.Message)
	}
}

func TestAppError_InvalidProcessingState(t *testing.T) {
	err := InvalidProcessingState("f1", "PROCESSING", "already processing")
	if err.Code != ErrCodeInvalidProcessingState {
		t.Errorf("expected INVALID_PROCESSING_STATE, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", err.HTTPStatus)
	}
	if err.Details["status"] != "PROCESSING" {
		t.Errorf("expected status detail, got %v", err.Details["status"])
	}
}

func TestAppError_ProcessingFailed_Fields(t *testing.T) {
	cause := fmt.Errorf("decode error")
	err := ProcessingFailed("f1", "image_processing", "bad jpeg", cause)
	if err.Details["file_id"] != "f1" {
		t.Errorf("expected file_id detail, got %v", err.Details["file_id"])
	}
	if err.Details["operation"] != "image_processing" {
		t.Errorf("expected operation detail, got %v", err.Details["operation"])
	}
	if err.Details["reason"] != "bad jpeg" {
		t.Errorf("expected reason detail, got %v", err.Details["reason"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_CommandTimeout(t *testing.T) {
	err := CommandTimeout("pdf_preview", fmt.Errorf("signal: killed"))
	if err.Code != ErrCodeCommandTimeout {
		t.Errorf("expected COMMAND_TIMEOUT, got %s", err.Code)
	}
	if err.Details["reason"] != "timeout" {
		t.Errorf("expected reason=timeout, got %v", err.Details["reason"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := FileNotFound("f1").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(FileNotFound("x")) {
		t.Error("expected AppError to be detected")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("plain error should not be an AppError")
	}
	wrapped := fmt.Errorf("wrapped: %w", ObjectNotFound("k"))
	if !IsAppError(wrapped) {
		t.Error("expected wrapped AppError to be detected")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(ObjectNotFound("k")); got != ErrCodeObjectNotFound {
		t.Errorf("expected OBJECT_NOT_FOUND, got %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR for untyped error, got %s", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", InvalidProcessingState("f", "PROCESSING", "busy"))
	if !HasCode(err, ErrCodeInvalidProcessingState) {
		t.Error("expected HasCode to match through wrapping")
	}
	if HasCode(err, ErrCodeSecurityViolation) {
		t.Error("expected HasCode to reject a different code")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(StorageTransient("upload", "k", nil)) {
		t.Error("transient storage errors are retryable")
	}
	if IsRetryable(Validation("bad key")) {
		t.Error("validation errors are not retryable")
	}
	if !IsRetryable(fmt.Errorf("raw network error")) {
		t.Error("untyped errors default to retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}
