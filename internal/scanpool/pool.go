package scanpool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ignetwork/pkg/logger"
	"ignetwork/pkg/models"
	"ignetwork/pkg/storage"
)

// ScanJob represents a single mention file to scan
type ScanJob struct {
	// Index is the position of the source in the manifest
	Index  int
	Source storage.MentionSource
}

// ScanResult represents the result of a scan job
type ScanResult struct {
	Job      ScanJob
	Edges    []models.Edge
	Posts    int
	Error    error
	Duration time.Duration
}

// Scanner turns one mention file into co-mention edges
type Scanner interface {
	Scan(ctx context.Context, source storage.MentionSource) (edges []models.Edge, posts int, err error)
}

// ScanFunc adapts a function to the Scanner interface
type ScanFunc func(ctx context.Context, source storage.MentionSource) ([]models.Edge, int, error)

// Scan calls f
func (f ScanFunc) Scan(ctx context.Context, source storage.MentionSource) ([]models.Edge, int, error) {
	return f(ctx, source)
}

// WorkerPool manages concurrent scan workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan ScanJob
	resultQueue chan ScanResult
	wg          sync.WaitGroup
	stopOnce    sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	scanner     Scanner
	logger      logger.Logger
}

// NewWorkerPool creates a new scan worker pool bound to ctx
func NewWorkerPool(ctx context.Context, numWorkers int, scanner Scanner, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)

	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan ScanJob, numWorkers*2),
		resultQueue: make(chan ScanResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		scanner:     scanner,
		logger:      log,
	}
}

// Start starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting scan pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for the workers and closes Results.
// It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
		wp.logger.Debug("Scan pool stopped")
	})
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job ScanJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("scan pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel of finished jobs, closed by Stop
func (wp *WorkerPool) Results() <-chan ScanResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job ScanJob, workerID int) ScanResult {
	start := time.Now()
	edges, posts, err := wp.scanner.Scan(wp.ctx, job.Source)
	result := ScanResult{
		Job:      job,
		Edges:    edges,
		Posts:    posts,
		Error:    err,
		Duration: time.Since(start),
	}

	wp.logger.DebugWithFields("Mention file scanned", map[string]interface{}{
		"worker_id": workerID,
		"file":      job.Source.File,
		"anchor":    job.Source.Anchor,
		"posts":     posts,
		"edges":     len(edges),
		"duration":  result.Duration,
	})
	return result
}

// Run scans every source with numWorkers workers and returns the results in
// source order, whatever order the workers finish in. It returns ctx's error
// if the context is cancelled before all sources are scanned.
func Run(ctx context.Context, numWorkers int, sources []storage.MentionSource, scanner Scanner, log logger.Logger) ([]ScanResult, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	if numWorkers > len(sources) {
		numWorkers = len(sources)
	}

	wp := NewWorkerPool(ctx, numWorkers, scanner, log)
	wp.Start()

	go func() {
		defer wp.Stop()
		for i, src := range sources {
			if err := wp.Submit(ScanJob{Index: i, Source: src}); err != nil {
				return
			}
		}
	}()

	results := make([]ScanResult, len(sources))
	done := 0
	for r := range wp.Results() {
		results[r.Job.Index] = r
		done++
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if done != len(sources) {
		return nil, fmt.Errorf("scan pool finished %d of %d files", done, len(sources))
	}
	return results, nil
}
