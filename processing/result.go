package processing

import "time"

// Warning markers attached to degraded results.
const (
	WarningScanFailed      = "SCAN_FAILED"
	WarningThumbnailFailed = "THUMBNAIL_FAILED"
	WarningOptimizeFailed  = "OPTIMIZATION_FAILED"
)

// Result is the uniform outcome of one pipeline run. Non-fatal
// sub-failures are carried as warnings instead of being swallowed.
type Result struct {
	Success           bool           `json:"success"`
	ProcessingTime    time.Duration  `json:"processing_time"`
	ExtractedMetadata map[string]any `json:"extracted_metadata,omitempty"`
	Optimizations     []string       `json:"optimizations,omitempty"`
	Warnings          []string       `json:"warnings,omitempty"`
	ThumbnailURL      string         `json:"thumbnail_url,omitempty"`
}

func (r *Result) warn(marker string) {
	r.Warnings = append(r.Warnings, marker)
}
