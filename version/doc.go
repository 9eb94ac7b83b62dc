// Package version snapshots stored objects to immutable versioned keys and
// tracks a monotonic per-file version counter.
//
// A snapshot copies the live object server-side to
// {fileId}/versions/{versionNumber}/{timestamp}. The parent metadata
// counter is incremented only after the copy has succeeded, so a failed
// copy never burns a version number.
package version
