package metadata

import (
	"time"
)

// Processing status values.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Virus scan status values.
const (
	ScanPending  = "PENDING"
	ScanClean    = "CLEAN"
	ScanInfected = "INFECTED"
	ScanFailed   = "SCAN_FAILED"
)

// DocumentTypeConfidential marks documents that get priority treatment.
const DocumentTypeConfidential = "CONFIDENTIAL"

// FileMetadata is the persistent record for a stored file.
type FileMetadata struct {
	ID             string `gorm:"primaryKey;size:36"`
	StorageKey     string `gorm:"index;not null"`
	Filename       string
	ContentType    string
	Size           int64
	ChecksumMD5    string
	ChecksumSHA256 string

	ProcessingStatus string `gorm:"index;default:PENDING"`
	VirusScanStatus  string `gorm:"default:PENDING"`

	// VersionCount starts at 1 for the original upload and increments only
	// after a version copy has durably succeeded.
	VersionCount int `gorm:"default:1"`

	DocumentType string
	UserID       string
	Tags         map[string]string `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table name for GORM.
func (FileMetadata) TableName() string { return "file_metadata" }

// IsTerminal reports whether a processing status is final.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
