// Package validation provides input validation utilities for the filevault core.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// evaluated once at configuration-load time; the fluent validator backs
// per-call argument checks in the storage gateway.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Bucket string `validate:"required"`
//	    Region string `validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("key", key).Required("content_type", meta.ContentType)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
