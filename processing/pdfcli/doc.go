// Package pdfcli processes PDF files through the poppler and Ghostscript
// command-line tools: pdfinfo for metadata extraction, pdftoppm for page
// previews and thumbnails, gs for a compressed rendition.
//
// Tool invocations run through the subprocess runner with a per-command
// timeout and a circuit breaker, so a wedged tool cannot stall a worker
// and repeated crashes stop being attempted for a while.
package pdfcli
