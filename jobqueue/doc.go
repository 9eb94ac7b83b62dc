// Package jobqueue is a durable priority queue for processing jobs.
//
// Jobs are ordered by priority (descending) then enqueue time (ascending),
// with an optional per-job delay before a job becomes eligible. Rows are
// persisted through a repository so queued work survives a restart;
// scheduling itself runs on in-process heaps.
//
// Failed jobs are requeued with exponential backoff until the attempt limit
// is reached, then marked FAILED. A bounded count of terminal jobs is kept
// for inspection and pruned beyond that.
package jobqueue
