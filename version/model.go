package version

import "time"

// Change type values recorded on a snapshot.
const (
	ChangeManual    = "manual"
	ChangeReprocess = "reprocess"
	ChangeRestore   = "restore"
)

// FileVersion is an immutable snapshot record. Never mutated after creation.
type FileVersion struct {
	ID            string `gorm:"primaryKey;size:36"`
	FileID        string `gorm:"index;not null"`
	VersionNumber int    `gorm:"not null"`
	StorageKey    string `gorm:"not null"`
	Size          int64
	Checksum      string
	ChangeType    string
	Description   string
	CreatedBy     string
	IsActive      bool
	CreatedAt     time.Time
}

// TableName sets the table name for GORM.
func (FileVersion) TableName() string { return "file_versions" }
