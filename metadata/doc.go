// Package metadata persists file records: storage location, checksums,
// processing and scan status, and the version counter.
//
// Status transitions go through TransitionStatus, a conditional update that
// only succeeds when the row still holds the expected current status. This
// is what keeps concurrent processing attempts from both claiming a file.
package metadata
