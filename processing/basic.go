package processing

import (
	"context"
	"strings"

	"github.com/skillsenselab/filevault/keys"
	"github.com/skillsenselab/filevault/metadata"
)

// CDNResolver maps a storage key to its public URL.
type CDNResolver func(storageKey string) string

// BasicProcessor is the local fallback when no external tool integration
// is wired for a content type. It extracts what it can from the metadata
// record alone and addresses thumbnails under the basic key layout
// {fileId}/thumbnails/{size}/{type}.{ext}.
type BasicProcessor struct {
	kind string // basic_image, basic_pdf, basic_document or basic
	cdn  CDNResolver
}

// NewBasicProcessor creates a fallback processor reporting the given kind.
func NewBasicProcessor(kind string, cdn CDNResolver) *BasicProcessor {
	return &BasicProcessor{kind: kind, cdn: cdn}
}

// RegisterBasicProcessors wires the fallback processors into a registry:
// images, PDFs and text each get a typed fallback, everything else the
// generic one.
func RegisterBasicProcessors(r *Registry, cdn CDNResolver) {
	r.Register("image/*", NewBasicProcessor("basic_image", cdn))
	r.Register("application/pdf", NewBasicProcessor("basic_pdf", cdn))
	r.Register("text/*", NewBasicProcessor("basic_document", cdn))
}

// NewBasicRegistry builds a registry containing only the fallbacks.
func NewBasicRegistry(cdn CDNResolver) *Registry {
	r := NewRegistry(NewBasicProcessor("basic", cdn))
	RegisterBasicProcessors(r, cdn)
	return r
}

func (p *BasicProcessor) Process(_ context.Context, file *metadata.FileMetadata) (*Result, error) {
	return &Result{
		ExtractedMetadata: map[string]any{
			"processingType": p.kind,
			"contentType":    file.ContentType,
			"sizeBytes":      file.Size,
			"filename":       file.Filename,
		},
	}, nil
}

func (p *BasicProcessor) GenerateThumbnail(_ context.Context, file *metadata.FileMetadata, size string) (string, error) {
	key := keys.ThumbnailBasic(file.ID, size, thumbnailType(p.kind), "jpg")
	return p.cdn(key), nil
}

func thumbnailType(kind string) string {
	return strings.TrimPrefix(kind, "basic_")
}
