package jobqueue

import "time"

// Job status values.
const (
	StatusQueued    = "QUEUED"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// JobTypeProcessFile is the job type consumed by the processing orchestrator.
const JobTypeProcessFile = "process-file"

// Options is the processing configuration snapshot carried by a job.
type Options struct {
	GenerateThumbnail   bool     `json:"generate_thumbnail"`
	OptimizeForWeb      bool     `json:"optimize_for_web"`
	ExtractMetadata     bool     `json:"extract_metadata"`
	ForceReprocess      bool     `json:"force_reprocess"`
	ImageQuality        int      `json:"image_quality,omitempty"`
	ThumbnailFormats    []string `json:"thumbnail_formats,omitempty"`
	PDFCompressionLevel string   `json:"pdf_compression_level,omitempty"`
}

// Job is one unit of asynchronous work.
type Job struct {
	ID       string `gorm:"primaryKey;size:36"`
	FileID   string `gorm:"index"`
	JobType  string
	Priority int    `gorm:"index"`
	Status   string `gorm:"index;default:QUEUED"`

	// Progress is 0-100 for client-facing reporting.
	Progress int

	Options Options `gorm:"serializer:json"`

	// Attempts counts delivery attempts made so far.
	Attempts    int
	MaxAttempts int

	// NotBefore is the earliest time the job may be handed to a worker.
	NotBefore time.Time

	// UserID is the requesting user, when known.
	UserID string

	// Reason records the enqueue reason or, on FAILED, the last error.
	Reason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table name for GORM.
func (Job) TableName() string { return "processing_jobs" }

// Terminal reports whether the job reached a final status.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
