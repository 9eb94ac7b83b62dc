// Package objectstore provides a thin transport client for an S3-compatible
// object store.
//
// The client issues single-shot and multipart requests, signs URLs, and
// classifies backend failures into the core error taxonomy (object-not-found,
// transient, permanent). It performs no validation, retries or policy; that
// is the gateway's job.
//
// # Configuration
//
//	objectstore:
//	  bucket: "documents"
//	  region: "us-east-1"
//	  endpoint: "http://minio:9000"
//	  force_path_style: true
package objectstore
