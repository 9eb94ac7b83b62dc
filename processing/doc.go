// Package processing drives the per-file pipeline state machine.
//
// ProcessUploadedFile moves a file PENDING -> PROCESSING -> COMPLETED or
// FAILED. Entering PROCESSING while already PROCESSING fails fast; no
// silent queueing, no double-processing. The file always ends in a
// terminal status, even when a step panics the error path still performs
// the FAILED transition before propagating.
//
// Security check failures mark the file INFECTED and fail the pipeline.
// An error from the check itself (as opposed to an unsafe verdict) only
// degrades the run: the scan status becomes SCAN_FAILED, a warning is
// attached to the result, and processing continues.
//
// Thumbnail generation and final optimizations are best-effort. Their
// failures become warnings, never pipeline failures.
package processing
