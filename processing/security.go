package processing

import (
	"context"
	"strings"

	"github.com/skillsenselab/filevault/metadata"
)

// Threat codes reported by the security check.
const (
	ThreatOversizedFile         = "oversized_file"
	ThreatDisallowedContentType = "disallowed_content_type"
	ThreatPathTraversalFilename = "path_traversal_filename"
)

// SecurityChecker inspects a file before processing. A non-empty threat
// list means the file is unsafe; a returned error means the check itself
// could not run.
type SecurityChecker interface {
	Check(ctx context.Context, file *metadata.FileMetadata) ([]string, error)
}

// BasicSecurityCheck enforces the size cap, content-type allow-list and
// path traversal rules.
type BasicSecurityCheck struct {
	maxSize int64
	allowed []string
}

// NewBasicSecurityCheck creates the checker from pipeline configuration.
func NewBasicSecurityCheck(cfg Config) *BasicSecurityCheck {
	cfg.ApplyDefaults()
	return &BasicSecurityCheck{maxSize: cfg.MaxFileSize, allowed: cfg.AllowedContentTypes}
}

func (c *BasicSecurityCheck) Check(_ context.Context, file *metadata.FileMetadata) ([]string, error) {
	var threats []string
	if file.Size > c.maxSize {
		threats = append(threats, ThreatOversizedFile)
	}
	if !c.contentTypeAllowed(file.ContentType) {
		threats = append(threats, ThreatDisallowedContentType)
	}
	if strings.Contains(file.Filename, "..") || strings.Contains(file.Filename, "/") {
		threats = append(threats, ThreatPathTraversalFilename)
	}
	return threats, nil
}

func (c *BasicSecurityCheck) contentTypeAllowed(contentType string) bool {
	for _, allowed := range c.allowed {
		if strings.HasSuffix(allowed, "/*") {
			if strings.HasPrefix(contentType, strings.TrimSuffix(allowed, "*")) {
				return true
			}
			continue
		}
		if contentType == allowed {
			return true
		}
	}
	return false
}
