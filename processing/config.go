package processing

// Default configuration values.
const (
	DefaultMaxFileSize   = int64(500 * 1024 * 1024)
	DefaultThumbnailSize = "200x200"
)

// DefaultAllowedContentTypes is the security allow-list. Entries ending in
// "/*" match any subtype.
var DefaultAllowedContentTypes = []string{
	"image/*",
	"text/*",
	"application/pdf",
	"application/json",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Config holds pipeline configuration.
type Config struct {
	// MaxFileSize is the security size cap in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size" json:"max_file_size"`

	// AllowedContentTypes is the security allow-list.
	AllowedContentTypes []string `mapstructure:"allowed_content_types" json:"allowed_content_types"`

	// ThumbnailSize is the default thumbnail dimensions, e.g. "200x200".
	ThumbnailSize string `mapstructure:"thumbnail_size" json:"thumbnail_size"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if len(c.AllowedContentTypes) == 0 {
		c.AllowedContentTypes = DefaultAllowedContentTypes
	}
	if c.ThumbnailSize == "" {
		c.ThumbnailSize = DefaultThumbnailSize
	}
}
