package jobqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillsenselab/filevault/logger"
)

// Handler processes one job delivery. Returning an error triggers a
// backoff requeue until the job's attempt limit is reached.
type Handler func(ctx context.Context, job *Job) error

// Start launches the worker pool. It returns immediately; workers run
// until Stop is called.
func (q *Queue) Start(ctx context.Context, handler Handler) {
	q.stop = make(chan struct{})
	done := make(chan struct{})
	q.done = done

	var wg sync.WaitGroup
	for i := 0; i < q.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.worker(ctx, handler)
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	q.log.Info("worker pool started", logger.Fields("workers", q.cfg.Workers))
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (q *Queue) Stop() {
	if q.stop == nil {
		return
	}
	close(q.stop)
	<-q.done
	q.stop = nil
}

func (q *Queue) worker(ctx context.Context, handler Handler) {
	for {
		job := q.next()
		if job == nil {
			return
		}
		q.deliver(ctx, job, handler)
	}
}

// deliver runs one delivery attempt and records the outcome.
func (q *Queue) deliver(ctx context.Context, job *Job, handler Handler) {
	job.Attempts++
	job.Status = StatusActive
	job.UpdatedAt = q.now()
	if err := q.repo.Update(ctx, job); err != nil {
		q.log.Error("failed to persist active job", logger.ErrorFields("deliver", err))
	}

	err := runHandler(ctx, job, handler)
	if err != nil {
		q.requeue(ctx, job, err)
		return
	}

	job.Status = StatusCompleted
	job.Progress = 100
	job.UpdatedAt = q.now()
	q.finalize(ctx, job)
	q.log.Info("job completed", logger.Fields(
		logger.FieldJobID, job.ID,
		logger.FieldFileID, job.FileID,
		logger.FieldAttempt, job.Attempts,
	))
}

// runHandler invokes the handler with panic recovery so a panicking job
// cannot take down a worker.
func runHandler(ctx context.Context, job *Job, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job handler panicked: %v", r)
		}
	}()
	return handler(ctx, job)
}
