package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/filevault/errors"
)

func TestRequiredRejectsEmptyAndWhitespace(t *testing.T) {
	if New().Required("key", "doc-1/versions/1").HasErrors() {
		t.Error("non-empty key should pass")
	}
	if !New().Required("key", "").HasErrors() {
		t.Error("empty key should fail")
	}
	if !New().Required("metadata.user_id", "   ").HasErrors() {
		t.Error("whitespace-only value should fail")
	}
}

func TestRangeBoundsPriority(t *testing.T) {
	for _, priority := range []int{1, 5, 10} {
		if New().Range("priority", priority, 1, 10).HasErrors() {
			t.Errorf("priority %d should be accepted", priority)
		}
	}
	for _, priority := range []int{0, 11, -3} {
		if !New().Range("priority", priority, 1, 10).HasErrors() {
			t.Errorf("priority %d should be rejected", priority)
		}
	}
}

func TestCustomCarriesMessage(t *testing.T) {
	v := New().Custom(false, "data", "must not be empty")
	if !v.HasErrors() {
		t.Fatal("false condition should fail")
	}
	if got := v.Errors()[0].Message; got != "must not be empty" {
		t.Errorf("expected caller message, got %q", got)
	}

	if New().Custom(true, "data", "must not be empty").HasErrors() {
		t.Error("true condition should pass")
	}
}

func TestChainingCollectsEveryFailure(t *testing.T) {
	v := New().
		Required("key", "").
		Required("metadata.content_type", "").
		Range("priority", 12, 1, 10)

	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected a validation error")
	}
	if !errors.HasCode(appErr, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_FAILED, got %s", appErr.Code)
	}
	for _, field := range []string{"key", "metadata.content_type", "priority"} {
		if !strings.Contains(appErr.Message, field) {
			t.Errorf("message %q should name field %s", appErr.Message, field)
		}
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field details, got %v", appErr.Details["fields"])
	}
}

func TestValidateNilWhenClean(t *testing.T) {
	v := New().Required("key", "doc-1").Range("priority", 5, 1, 10)
	if appErr := v.Validate(); appErr != nil {
		t.Errorf("expected nil for passing checks, got %v", appErr)
	}
}

func TestStructValidate(t *testing.T) {
	type settings struct {
		Environment string `json:"environment" validate:"required,oneof=development staging production"`
		Bucket      string `json:"bucket" validate:"required"`
	}

	if err := Validate(settings{Environment: "production", Bucket: "documents"}); err != nil {
		t.Fatalf("valid settings should pass, got %v", err)
	}

	err := Validate(settings{Environment: "testing"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "environment") || !strings.Contains(msg, "bucket") {
		t.Errorf("expected both failing fields in %q", msg)
	}
	if !strings.Contains(msg, "must be one of") {
		t.Errorf("expected the oneof message in %q", msg)
	}
}

func TestStructValidateUsesSnakeCaseNames(t *testing.T) {
	type limits struct {
		MaxFileSize int64 `validate:"min=1"`
	}

	err := Validate(limits{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "max_file_size") {
		t.Errorf("expected snake_case field name in %q", err.Error())
	}
}
