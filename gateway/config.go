package gateway

import (
	"errors"
	"time"
)

// Default configuration values.
const (
	DefaultMaxFileSize        = int64(500 * 1024 * 1024) // 500 MiB
	DefaultMultipartThreshold = int64(100 * 1024 * 1024) // 100 MiB
	DefaultPartSize           = int64(50 * 1024 * 1024)  // 50 MiB
	DefaultMaxInFlightParts   = 4
	DefaultRetryAttempts      = 3
	DefaultRetryBackoff       = 200 * time.Millisecond
	DefaultPresignExpiry      = time.Hour
	DefaultMaxPresignExpiry   = 7 * 24 * time.Hour
)

// Config holds storage gateway configuration.
type Config struct {
	// MaxFileSize is the maximum accepted upload size in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size" json:"max_file_size"`

	// MultipartThreshold is the payload size above which uploads switch to
	// a multipart transfer.
	MultipartThreshold int64 `mapstructure:"multipart_threshold" json:"multipart_threshold"`

	// PartSize is the fixed multipart part size. The last part may be smaller.
	PartSize int64 `mapstructure:"part_size" json:"part_size"`

	// MaxInFlightParts caps concurrent part uploads.
	MaxInFlightParts int `mapstructure:"max_in_flight_parts" json:"max_in_flight_parts"`

	// RetryAttempts is the attempt cap for each storage call.
	RetryAttempts int `mapstructure:"retry_attempts" json:"retry_attempts"`

	// RetryBackoff is the base delay before the first retry; subsequent
	// waits double.
	RetryBackoff time.Duration `mapstructure:"retry_backoff" json:"retry_backoff"`

	// PresignExpiry is the default presigned URL lifetime.
	PresignExpiry time.Duration `mapstructure:"presign_expiry" json:"presign_expiry"`

	// MaxPresignExpiry bounds caller-supplied presign lifetimes.
	MaxPresignExpiry time.Duration `mapstructure:"max_presign_expiry" json:"max_presign_expiry"`

	// CDNBaseURL is the public CDN prefix for stored objects.
	CDNBaseURL string `mapstructure:"cdn_base_url" json:"cdn_base_url"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MultipartThreshold <= 0 {
		c.MultipartThreshold = DefaultMultipartThreshold
	}
	if c.PartSize <= 0 {
		c.PartSize = DefaultPartSize
	}
	if c.MaxInFlightParts <= 0 {
		c.MaxInFlightParts = DefaultMaxInFlightParts
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = DefaultPresignExpiry
	}
	if c.MaxPresignExpiry <= 0 {
		c.MaxPresignExpiry = DefaultMaxPresignExpiry
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.PartSize > c.MultipartThreshold {
		return errors.New("gateway: part_size must not exceed multipart_threshold")
	}
	if c.MultipartThreshold > c.MaxFileSize {
		return errors.New("gateway: multipart_threshold must not exceed max_file_size")
	}
	return nil
}
