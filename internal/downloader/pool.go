package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/logger"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/ratelimit"
)

// DownloadJob is one snapshot to fetch and persist. Source is the raw
// iframe source the image was discovered through; it travels with the job
// so failures can be reported against the right camera frame.
type DownloadJob struct {
	ImageURL string
	FileName string
	Source   string
}

// DownloadResult represents the outcome of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Error    error
	Duration time.Duration
	Size     int
}

// ImageFetcher downloads image bytes
type ImageFetcher interface {
	DownloadImage(url string) ([]byte, error)
}

// ImageStore persists image bytes under a file name
type ImageStore interface {
	SaveImage(r io.Reader, name string) error
}

// WorkerPool manages concurrent snapshot downloads. A pool of size one
// keeps downloads strictly sequential.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan DownloadJob
	resultQueue chan DownloadResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      ImageFetcher
	store       ImageStore
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool
func NewWorkerPool(
	numWorkers int,
	client ImageFetcher,
	store ImageStore,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if numWorkers < 1 {
		numWorkers = 1
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.NewUnlimited()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan DownloadJob, numWorkers*2),
		resultQueue: make(chan DownloadResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		store:       store,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting download pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight downloads to finish, and
// closes the result queue.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("download pool stopped")
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job DownloadJob) error {
	// Checked first so a submit after Stop errors instead of hitting the
	// closed queue.
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	default:
	}

	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

// worker is the main worker routine
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

// processJob downloads one snapshot and writes it to the store
func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	if !wp.rateLimiter.Allow() {
		wp.logger.DebugWithFields("worker waiting for rate limit", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.ImageURL,
		})
		wp.rateLimiter.Wait()
	}

	data, err := wp.client.DownloadImage(job.ImageURL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("worker failed to download snapshot", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.ImageURL,
			"source":    job.Source,
			"error":     err.Error(),
		})

		return result
	}

	result.Size = len(data)

	if err := wp.store.SaveImage(bytes.NewReader(data), job.FileName); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("worker failed to save snapshot", map[string]interface{}{
			"worker_id": workerID,
			"file":      job.FileName,
			"source":    job.Source,
			"error":     err.Error(),
		})

		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"file":      job.FileName,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}
