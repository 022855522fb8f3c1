package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnana997/jsdeps/pkg/interrogate"
	"github.com/gnana997/jsdeps/pkg/util"
)

// FileJob is one file queued for extraction.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is one file's extracted imports.
type FileResult struct {
	Imports *FileImports
	JobID   int
}

// WorkerPool processes file jobs on a fixed set of goroutines. Each
// worker reads the file (through the shared FileCache when one is
// configured), runs import extraction, and reports on the results or
// errors channel.
//
//	pool := NewWorkerPool(0, interrogator, files, logger)
//	pool.Start()
//	defer pool.Stop()
type WorkerPool struct {
	numWorkers   int
	jobs         chan FileJob
	results      chan FileResult
	errors       chan FileError
	wg           sync.WaitGroup
	interrogator *interrogate.Interrogator
	files        util.FileCache
	logger       *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool. numWorkers 0 uses the CPU-derived
// default, which matches the parser pool size so workers never block
// waiting for parsers. A nil files cache falls back to os.ReadFile.
func NewWorkerPool(numWorkers int, in *interrogate.Interrogator, files util.FileCache, logger *slog.Logger) *WorkerPool {
	numWorkers = util.PoolSizeWithOverride(numWorkers)
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers:   numWorkers,
		jobs:         make(chan FileJob, numWorkers*2),
		results:      make(chan FileResult, numWorkers),
		errors:       make(chan FileError, numWorkers),
		interrogator: in,
		files:        files,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start spawns the workers. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	content, err := wp.readFile(job.FilePath)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Err: fmt.Errorf("failed to read file: %w", err)}
		return
	}

	modules, err := wp.interrogator.ExtractFileImports(job.FilePath, content)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Err: err}
		return
	}

	hash := sha256.Sum256(content)
	wp.jobsProcessed.Add(1)
	wp.results <- FileResult{
		Imports: &FileImports{
			FilePath:    job.FilePath,
			Modules:     modules,
			ContentHash: hex.EncodeToString(hash[:]),
			Timestamp:   time.Now().UnixMilli(),
		},
		JobID: job.JobID,
	}

	wp.logger.Debug("extracted file",
		"worker_id", workerID,
		"file", job.FilePath,
		"modules", len(modules))
}

func (wp *WorkerPool) readFile(filePath string) ([]byte, error) {
	if wp.files != nil {
		return wp.files.ReadFile(filePath)
	}
	return os.ReadFile(filePath)
}

// Submit enqueues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit once the
// queue drains. Safe to call multiple times.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Stop shuts the pool down: no new jobs, in-flight jobs finish, then
// the result and error channels are closed. Safe to call multiple times.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}
