// Package keys builds the storage key conventions shared by the gateway,
// versioning and processing pipeline. Consumers depend on these exact
// layouts, so changes here are breaking.
package keys

import (
	"fmt"
	"time"
)

// Version returns the key for an immutable version snapshot:
// {fileId}/versions/{versionNumber}/{timestamp}.
func Version(fileID string, versionNumber int, t time.Time) string {
	return fmt.Sprintf("%s/versions/%d/%d", fileID, versionNumber, t.UnixMilli())
}

// Optimized returns the key for an optimized rendition:
// {fileId}/optimized/{format}/{timestamp}.
func Optimized(fileID, format string, t time.Time) string {
	return fmt.Sprintf("%s/optimized/%s/%d", fileID, format, t.UnixMilli())
}

// Thumbnail returns the key for a generated thumbnail:
// {fileId}/thumbnails/{size}/{format}/{timestamp}.
func Thumbnail(fileID, size, format string, t time.Time) string {
	return fmt.Sprintf("%s/thumbnails/%s/%s/%d", fileID, size, format, t.UnixMilli())
}

// ThumbnailBasic returns the key used by the basic orchestrator path:
// {fileId}/thumbnails/{size}/{type}.{ext}.
func ThumbnailBasic(fileID, size, typ, ext string) string {
	return fmt.Sprintf("%s/thumbnails/%s/%s.%s", fileID, size, typ, ext)
}

// PDFPreviewPage returns the key for a rendered PDF page:
// {fileId}/preview/page-{n}-{dpi}dpi.jpg.
func PDFPreviewPage(fileID string, page, dpi int) string {
	return fmt.Sprintf("%s/preview/page-%d-%ddpi.jpg", fileID, page, dpi)
}
