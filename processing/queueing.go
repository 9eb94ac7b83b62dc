package processing

import (
	"context"
	"strings"
	"time"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/jobqueue"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
)

const mib = 1024 * 1024

// JobEnqueuer adds processing jobs. *jobqueue.Queue satisfies it.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, spec jobqueue.EnqueueSpec) (*jobqueue.Job, error)
}

// QueueResult reports a queued processing job back to the caller.
type QueueResult struct {
	JobID             string        `json:"job_id"`
	Status            string        `json:"status"`
	Progress          int           `json:"progress"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
}

// QueueProcessing schedules asynchronous processing for a PENDING file.
// Priority, eligibility delay and the client-facing duration estimate are
// all derived from the file's size and type.
func (o *Orchestrator) QueueProcessing(ctx context.Context, fileID string, opts jobqueue.Options) (*QueueResult, error) {
	file, err := o.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.ProcessingStatus != metadata.StatusPending {
		return nil, errors.InvalidProcessingState(fileID, file.ProcessingStatus, "only PENDING files can be queued")
	}

	priority := computePriority(file, opts)
	delay := computeDelay(file.Size)
	estimate := estimateDuration(file.ContentType, file.Size)

	job, err := o.queue.Enqueue(ctx, jobqueue.EnqueueSpec{
		FileID:   fileID,
		JobType:  jobqueue.JobTypeProcessFile,
		Priority: priority,
		Delay:    delay,
		Options:  opts,
		UserID:   file.UserID,
		Reason:   "post-upload processing",
	})
	if err != nil {
		return nil, err
	}

	o.log.Info("processing queued", logger.Fields(
		logger.FieldFileID, fileID,
		logger.FieldJobID, job.ID,
		logger.FieldPriority, priority,
		logger.FieldSizeBytes, file.Size,
	))
	return &QueueResult{
		JobID:             job.ID,
		Status:            "queued",
		Progress:          0,
		EstimatedDuration: estimate,
	}, nil
}

// HandleJob adapts the orchestrator to the queue's worker contract.
func (o *Orchestrator) HandleJob(ctx context.Context, job *jobqueue.Job) error {
	_, err := o.ProcessUploadedFile(ctx, job.FileID)
	return err
}

// computePriority derives a [1,10] priority: base 5, small files and
// confidential documents jump the line, very large files yield.
func computePriority(file *metadata.FileMetadata, opts jobqueue.Options) int {
	priority := 5
	if file.Size < 1*mib {
		priority += 2
	}
	if file.DocumentType == metadata.DocumentTypeConfidential {
		priority += 2
	}
	if opts.ForceReprocess {
		priority++
	}
	if file.Size > 50*mib {
		priority--
	}
	if priority < 1 {
		priority = 1
	}
	if priority > 10 {
		priority = 10
	}
	return priority
}

// computeDelay staggers large uploads so bursts do not saturate the
// workers.
func computeDelay(size int64) time.Duration {
	switch {
	case size < 1*mib:
		return 0
	case size < 10*mib:
		return time.Second
	case size < 50*mib:
		return 5 * time.Second
	default:
		return 10 * time.Second
	}
}

// estimateDuration produces the client-facing processing time estimate.
func estimateDuration(contentType string, size int64) time.Duration {
	mebibytes := size / mib
	var seconds int64
	switch {
	case strings.HasPrefix(contentType, "image/"):
		seconds = max(5, 2*mebibytes)
	case contentType == "application/pdf":
		seconds = max(10, 3*mebibytes)
	default:
		seconds = max(3, mebibytes)
	}
	return time.Duration(seconds) * time.Second
}
