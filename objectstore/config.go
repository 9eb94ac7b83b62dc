package objectstore

import (
	"errors"
	"fmt"
)

// Default configuration values.
const (
	DefaultRegion = "us-east-1"
	DefaultBucket = "documents"
)

// Config holds object store connection configuration.
type Config struct {
	// Bucket is the bucket name. One logical bucket per domain; this core
	// assumes the documents bucket unless configured otherwise.
	Bucket string `mapstructure:"bucket" json:"bucket" validate:"required"`

	// Region is the AWS region.
	Region string `mapstructure:"region" json:"region" validate:"required"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	// AccessKey is the access key ID.
	AccessKey string `mapstructure:"access_key" json:"access_key"`

	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" json:"secret_key"`

	// ForcePathStyle enables path-style addressing. Always on when a custom
	// endpoint is set.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("objectstore: bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("objectstore: region is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("objectstore: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
