package content

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/cafetheme/pkg/util"
)

// FileJob is one file queued for extraction.
type FileJob struct {
	Path  string
	JobID int
}

// FileError reports a file that could not be extracted.
type FileError struct {
	Path  string
	JobID int
	Err   error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// WorkerPool extracts class candidates from files on a fixed set of
// goroutines. Results and errors arrive on separate channels; callers must
// drain both until Wait returns or the channels are closed.
//
//	pool := NewWorkerPool(0, cache, logger)
//	pool.Start(ctx)
//	go func() {
//	    for _, f := range files {
//	        pool.Submit(FileJob{Path: f})
//	    }
//	    pool.Close()
//	}()
//	for r := range pool.Results() { ... }
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileCandidates
	errors     chan FileError
	wg         sync.WaitGroup
	cache      *FileCache
	logger     *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	started   atomic.Bool
	closeOnce sync.Once

	processed atomic.Int64
	failed    atomic.Int64
}

// NewWorkerPool creates a pool reading files through cache. numWorkers 0
// picks util.GetOptimalPoolSize().
func NewWorkerPool(numWorkers int, cache *FileCache, logger *slog.Logger) *WorkerPool {
	numWorkers = util.GetOptimalPoolSizeWithOverride(numWorkers)
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileCandidates, numWorkers),
		errors:     make(chan FileError, numWorkers),
		cache:      cache,
		logger:     logger,
	}
}

// Start launches the workers. They stop when ctx is cancelled or after
// Close once the queue is drained; Results and Errors are then closed.
func (wp *WorkerPool) Start(ctx context.Context) {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.ctx, wp.cancel = context.WithCancel(ctx)

	wp.logger.Debug("starting content worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	go func() {
		wp.wg.Wait()
		wp.cancel()
		close(wp.results)
		close(wp.errors)
	}()
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.process(job)
		}
	}
}

func (wp *WorkerPool) process(job FileJob) {
	mf, err := wp.cache.Get(job.Path)
	if err != nil {
		wp.fail(job, err)
		return
	}
	candidates, err := extractMapped(mf)
	size := int64(len(mf.Data))
	mf.Release()
	if err != nil {
		wp.fail(job, err)
		return
	}

	wp.processed.Add(1)
	select {
	case wp.results <- FileCandidates{Path: job.Path, Candidates: candidates, Size: size}:
	case <-wp.ctx.Done():
	}
}

func (wp *WorkerPool) fail(job FileJob, err error) {
	wp.failed.Add(1)
	select {
	case wp.errors <- FileError{Path: job.Path, JobID: job.JobID, Err: err}:
	case <-wp.ctx.Done():
	}
}

// Submit queues a job. It returns false if the pool has been cancelled.
func (wp *WorkerPool) Submit(job FileJob) bool {
	if wp.ctx.Err() != nil {
		return false
	}
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Close signals that no more jobs will be submitted.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() { close(wp.jobs) })
}

// Stop cancels outstanding work.
func (wp *WorkerPool) Stop() {
	if wp.cancel != nil {
		wp.cancel()
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Results delivers extracted files.
func (wp *WorkerPool) Results() <-chan FileCandidates { return wp.results }

// Errors delivers per-file failures.
func (wp *WorkerPool) Errors() <-chan FileError { return wp.errors }

// Processed returns the number of files extracted so far.
func (wp *WorkerPool) Processed() int64 { return wp.processed.Load() }

// Failed returns the number of files that could not be read.
func (wp *WorkerPool) Failed() int64 { return wp.failed.Load() }
