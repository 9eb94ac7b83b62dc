package jobqueue

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/validation"
)

// EnqueueSpec describes a job being added to the queue.
type EnqueueSpec struct {
	FileID   string
	JobType  string
	Priority int
	Delay    time.Duration
	Options  Options
	UserID   string
	Reason   string

	// MaxAttempts overrides the configured default when > 0.
	MaxAttempts int
}

// Queue schedules persisted jobs across a worker pool.
type Queue struct {
	cfg  Config
	repo Repository
	log  *logger.Logger
	now  func() time.Time

	mu       sync.Mutex
	ready    readyHeap
	delayed  delayHeap
	seq      uint64
	terminal []string

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New creates a queue backed by the given repository.
func New(cfg Config, repo Repository, log *logger.Logger) *Queue {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Queue{
		cfg:  cfg,
		repo: repo,
		log:  log.WithComponent("jobqueue"),
		now:  time.Now,
		wake: make(chan struct{}, 1),
	}
}

// Enqueue persists a job and schedules it. The job becomes eligible after
// its delay has elapsed.
func (q *Queue) Enqueue(ctx context.Context, spec EnqueueSpec) (*Job, error) {
	v := validation.New()
	v.Required("file_id", spec.FileID)
	v.Required("job_type", spec.JobType)
	v.Range("priority", spec.Priority, 1, 10)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	maxAttempts := spec.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = q.cfg.MaxAttempts
	}
	now := q.now()
	job := &Job{
		ID:          uuid.NewString(),
		FileID:      spec.FileID,
		JobType:     spec.JobType,
		Priority:    spec.Priority,
		Status:      StatusQueued,
		Options:     spec.Options,
		MaxAttempts: maxAttempts,
		NotBefore:   now.Add(spec.Delay),
		UserID:      spec.UserID,
		Reason:      spec.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := q.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	q.mu.Lock()
	q.schedule(job)
	q.mu.Unlock()
	q.signal()

	q.log.Info("job enqueued", logger.Fields(
		logger.FieldJobID, job.ID,
		logger.FieldFileID, job.FileID,
		logger.FieldJobType, job.JobType,
		logger.FieldPriority, job.Priority,
	))
	return job, nil
}

// Recover reloads runnable jobs from the repository into the scheduler.
// ACTIVE jobs interrupted by a crash are requeued for redelivery.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	jobs, err := q.repo.ListRunnable(ctx)
	if err != nil {
		return 0, err
	}

	q.mu.Lock()
	for i := range jobs {
		job := jobs[i]
		if job.Status == StatusActive {
			job.Status = StatusQueued
			if updateErr := q.repo.Update(ctx, &job); updateErr != nil {
				q.mu.Unlock()
				return 0, updateErr
			}
		}
		q.schedule(&job)
	}
	q.mu.Unlock()
	q.signal()
	return len(jobs), nil
}

// Job returns a job row by id.
func (q *Queue) Job(ctx context.Context, id string) (*Job, error) {
	return q.repo.FindByID(ctx, id)
}

// Pending reports how many jobs are waiting (ready or delayed).
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ready.Len() + q.delayed.Len()
}

// schedule places a job on the appropriate heap. Caller holds the lock.
func (q *Queue) schedule(job *Job) {
	q.seq++
	it := &item{job: job, seq: q.seq, notBefore: job.NotBefore}
	if job.NotBefore.After(q.now()) {
		heap.Push(&q.delayed, it)
	} else {
		heap.Push(&q.ready, it)
	}
}

// promote moves due delayed jobs onto the ready heap. Caller holds the lock.
func (q *Queue) promote() {
	now := q.now()
	for q.delayed.Len() > 0 && !q.delayed[0].notBefore.After(now) {
		it := heap.Pop(&q.delayed).(*item)
		heap.Push(&q.ready, it)
	}
}

// next blocks until an eligible job is available or the queue stops.
func (q *Queue) next() *Job {
	for {
		q.mu.Lock()
		q.promote()
		if q.ready.Len() > 0 {
			it := heap.Pop(&q.ready).(*item)
			q.mu.Unlock()
			return it.job
		}
		wait := q.cfg.PollInterval
		if q.delayed.Len() > 0 {
			if until := time.Until(q.delayed[0].notBefore); until < wait {
				wait = until
			}
			if wait < time.Millisecond {
				wait = time.Millisecond
			}
		}
		q.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-q.stop:
			timer.Stop()
			return nil
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// finalize records a terminal status and prunes retained terminal jobs
// beyond the configured count.
func (q *Queue) finalize(ctx context.Context, job *Job) {
	if err := q.repo.Update(ctx, job); err != nil {
		q.log.Error("failed to persist terminal job", logger.ErrorFields("finalize", err))
	}

	q.mu.Lock()
	q.terminal = append(q.terminal, job.ID)
	var pruned []string
	if excess := len(q.terminal) - q.cfg.RetentionCount; excess > 0 {
		pruned = append(pruned, q.terminal[:excess]...)
		q.terminal = q.terminal[excess:]
	}
	q.mu.Unlock()

	if len(pruned) > 0 {
		if err := q.repo.Delete(ctx, pruned); err != nil {
			q.log.Warn("failed to prune terminal jobs", logger.ErrorFields("prune", err))
		}
	}
}

// requeue schedules a failed job for another attempt with exponential
// backoff. Exhausted attempts and non-retryable errors, such as a state
// guard rejecting the file, mark the job FAILED instead.
func (q *Queue) requeue(ctx context.Context, job *Job, cause error) {
	if job.Attempts >= job.MaxAttempts || !errors.IsRetryable(cause) {
		job.Status = StatusFailed
		job.Reason = cause.Error()
		job.UpdatedAt = q.now()
		q.finalize(ctx, job)
		q.log.Warn("job failed permanently", logger.Fields(
			logger.FieldJobID, job.ID,
			logger.FieldFileID, job.FileID,
			logger.FieldAttempt, job.Attempts,
			logger.FieldError, cause.Error(),
		))
		return
	}

	backoff := q.cfg.Backoff << (job.Attempts - 1)
	job.Status = StatusQueued
	job.NotBefore = q.now().Add(backoff)
	job.UpdatedAt = q.now()
	if err := q.repo.Update(ctx, job); err != nil {
		q.log.Error("failed to persist requeued job", logger.ErrorFields("requeue", err))
	}

	q.mu.Lock()
	q.schedule(job)
	q.mu.Unlock()
	q.signal()

	q.log.Warn("job requeued", logger.Fields(
		logger.FieldJobID, job.ID,
		logger.FieldAttempt, job.Attempts,
		logger.FieldError, cause.Error(),
	))
}
