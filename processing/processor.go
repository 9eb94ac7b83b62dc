package processing

import (
	"context"
	"strings"

	"github.com/skillsenselab/filevault/metadata"
)

// Processor handles one content-type family.
type Processor interface {
	// Process runs the type-specific transformation and returns the
	// extracted metadata and optimizations applied.
	Process(ctx context.Context, file *metadata.FileMetadata) (*Result, error)

	// GenerateThumbnail produces a thumbnail at the given size, e.g.
	// "200x200", and returns its public URL.
	GenerateThumbnail(ctx context.Context, file *metadata.FileMetadata, size string) (string, error)
}

// Registry dispatches content types to processors. Exact matches win over
// prefix patterns ("image/*"); an unmatched type falls back to the default
// processor.
type Registry struct {
	exact    map[string]Processor
	prefixes []prefixEntry
	fallback Processor
}

type prefixEntry struct {
	prefix    string
	processor Processor
}

// NewRegistry creates a registry with the given fallback processor.
func NewRegistry(fallback Processor) *Registry {
	return &Registry{
		exact:    make(map[string]Processor),
		fallback: fallback,
	}
}

// Register binds a content type pattern to a processor. Patterns ending in
// "/*" match by prefix; anything else matches exactly.
func (r *Registry) Register(pattern string, p Processor) {
	if strings.HasSuffix(pattern, "/*") {
		r.prefixes = append(r.prefixes, prefixEntry{
			prefix:    strings.TrimSuffix(pattern, "*"),
			processor: p,
		})
		return
	}
	r.exact[pattern] = p
}

// Lookup returns the processor for a content type.
func (r *Registry) Lookup(contentType string) Processor {
	if p, ok := r.exact[contentType]; ok {
		return p
	}
	for _, e := range r.prefixes {
		if strings.HasPrefix(contentType, e.prefix) {
			return e.processor
		}
	}
	return r.fallback
}

// thumbnailEligible reports whether a content type gets a thumbnail pass.
func thumbnailEligible(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "text/") ||
		contentType == "application/pdf"
}
