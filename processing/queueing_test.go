package processing

import (
	"testing"
	"time"

	"github.com/skillsenselab/filevault/jobqueue"
	"github.com/skillsenselab/filevault/metadata"
)

func TestComputePriority(t *testing.T) {
	cases := []struct {
		name string
		file metadata.FileMetadata
		opts jobqueue.Options
		want int
	}{
		{"base", metadata.FileMetadata{Size: 5 * mib}, jobqueue.Options{}, 5},
		{"small file bonus", metadata.FileMetadata{Size: 512 * 1024}, jobqueue.Options{}, 7},
		{"confidential", metadata.FileMetadata{Size: 5 * mib, DocumentType: metadata.DocumentTypeConfidential}, jobqueue.Options{}, 7},
		{"force reprocess", metadata.FileMetadata{Size: 5 * mib}, jobqueue.Options{ForceReprocess: true}, 6},
		{"large file penalty", metadata.FileMetadata{Size: 60 * mib}, jobqueue.Options{}, 4},
		{"everything stacks", metadata.FileMetadata{Size: 100, DocumentType: metadata.DocumentTypeConfidential}, jobqueue.Options{ForceReprocess: true}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computePriority(&tc.file, tc.opts)
			if got != tc.want {
				t.Errorf("expected priority %d, got %d", tc.want, got)
			}
		})
	}
}

func TestComputePriority_AlwaysInBounds(t *testing.T) {
	sizes := []int64{0, 100, mib - 1, mib, 10 * mib, 50 * mib, 50*mib + 1, 500 * mib}
	docTypes := []string{"", metadata.DocumentTypeConfidential, "INVOICE"}
	for _, size := range sizes {
		for _, docType := range docTypes {
			for _, force := range []bool{false, true} {
				file := metadata.FileMetadata{Size: size, DocumentType: docType}
				p := computePriority(&file, jobqueue.Options{ForceReprocess: force})
				if p < 1 || p > 10 {
					t.Fatalf("priority %d out of [1,10] for size=%d docType=%q force=%v", p, size, docType, force)
				}
			}
		}
	}
}

func TestComputeDelayTiers(t *testing.T) {
	cases := []struct {
		size int64
		want time.Duration
	}{
		{512 * 1024, 0},
		{mib, time.Second},
		{5 * mib, time.Second},
		{10 * mib, 5 * time.Second},
		{49 * mib, 5 * time.Second},
		{50 * mib, 10 * time.Second},
		{500 * mib, 10 * time.Second},
	}
	for _, tc := range cases {
		if got := computeDelay(tc.size); got != tc.want {
			t.Errorf("delay(%d) = %v, want %v", tc.size, got, tc.want)
		}
	}
}

func TestEstimateDuration(t *testing.T) {
	cases := []struct {
		contentType string
		size        int64
		want        time.Duration
	}{
		{"image/png", 1 * mib, 5 * time.Second},
		{"image/png", 10 * mib, 20 * time.Second},
		{"application/pdf", 2 * mib, 10 * time.Second},
		{"application/pdf", 20 * mib, 60 * time.Second},
		{"text/plain", 2 * 1024, 3 * time.Second},
		{"application/zip", 100 * mib, 100 * time.Second},
	}
	for _, tc := range cases {
		if got := estimateDuration(tc.contentType, tc.size); got != tc.want {
			t.Errorf("estimate(%s, %d) = %v, want %v", tc.contentType, tc.size, got, tc.want)
		}
	}
}
