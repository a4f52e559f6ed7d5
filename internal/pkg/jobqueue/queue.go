package jobqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/imageprocessor"
)

const (
	// Job settings
	DefaultMaxRetries = 3
	pendingBuffer     = 1024
)

// exportFunc runs a single-item export. Swappable in tests.
type exportFunc func(ctx context.Context, item *models.Image, cfg imageprocessor.ExportConfig, outputDir string) imageprocessor.ItemResult

// Queue runs export jobs on a bounded worker pool. Everything lives in
// process memory: a batch run does not survive a restart, which is fine for
// an interactive session tool.
type Queue struct {
	workers int
	pending chan string
	export  exportFunc

	mu      sync.Mutex
	jobs    map[string]*Job
	stats   map[JobStatus]int64
	running bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates a new job queue
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = 3 // Default number of workers
	}

	return &Queue{
		workers: workers,
		pending: make(chan string, pendingBuffer),
		export:  imageprocessor.Export,
		jobs:    make(map[string]*Job),
		stats:   make(map[JobStatus]int64),
	}
}

// Start starts the job queue workers
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	q.running = true
	q.ctx, q.cancel = context.WithCancel(context.Background())
	log.Infof("[JobQueue] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop stops the job queue workers. In-flight exports observe the canceled
// context and finish as canceled.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}

	log.Info("[JobQueue] Stopping workers...")
	q.running = false
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()
	log.Info("[JobQueue] All workers stopped")
}

// worker processes jobs from the queue
func (q *Queue) worker(id int) {
	defer q.wg.Done()
	log.Infof("[JobQueue] Worker %d started", id)

	for {
		select {
		case <-q.ctx.Done():
			log.Infof("[JobQueue] Worker %d stopping", id)
			return
		case jobID := <-q.pending:
			job := q.getJob(jobID)
			if job == nil {
				log.Errorf("[JobQueue] Worker %d: job data missing for %s", id, jobID)
				continue
			}
			log.Infof("[JobQueue] Worker %d processing job %s (Type: %s)", id, job.ID, job.Type)
			q.processJob(job)
		}
	}
}

// Enqueue adds a new export job to the queue.
func (q *Queue) Enqueue(payload ExportJobPayload) (*Job, error) {
	job := &Job{
		ID:         uuid.New().String(),
		Type:       JobTypeExportImage,
		Status:     JobStatusPending,
		Payload:    payload,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		MaxRetries: DefaultMaxRetries,
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.stats[JobStatusPending]++
	q.mu.Unlock()

	select {
	case q.pending <- job.ID:
	default:
		q.mu.Lock()
		delete(q.jobs, job.ID)
		q.stats[JobStatusPending]--
		q.mu.Unlock()
		return nil, fmt.Errorf("job queue is full")
	}

	imageprocessor.SetExportStatus(payload.Item.UUID, imageprocessor.StatusPending)
	log.Infof("[JobQueue] Enqueued job %s for item %s", job.ID, payload.Item.UUID)
	return job, nil
}

// processJob processes a single job
func (q *Queue) processJob(job *Job) {
	q.withJob(job, func(j *Job) { j.MarkAsProcessing() })

	result := q.export(q.ctx, job.Payload.Item, job.Payload.Config, job.Payload.OutputDir)

	switch result.Status {
	case imageprocessor.ResultCompleted:
		log.Infof("[JobQueue] Job %s completed successfully", job.ID)
		q.withJob(job, func(j *Job) { j.MarkAsCompleted(result) })
		q.bumpStats(JobStatusCompleted)

	case imageprocessor.ResultCanceled:
		log.Infof("[JobQueue] Job %s canceled", job.ID)
		q.withJob(job, func(j *Job) {
			j.Status = JobStatusFailed
			j.ErrorMsg = result.Error
			j.UpdatedAt = time.Now()
			j.Result = &result
		})
		q.bumpStats(JobStatusFailed)

	default:
		log.Errorf("[JobQueue] Job %s failed: %s", job.ID, result.Error)
		q.withJob(job, func(j *Job) {
			j.MarkAsFailed(result.Error)
			j.Result = &result
		})

		if job.IsRetryable() {
			log.Infof("[JobQueue] Retrying job %s (Attempt %d/%d)", job.ID, job.RetryCount, job.MaxRetries)
			q.withJob(job, func(j *Job) { j.MarkAsRetrying() })

			// Re-enqueue for retry after a delay
			delay := time.Duration(job.RetryCount) * time.Second
			time.AfterFunc(delay, func() {
				select {
				case q.pending <- job.ID:
				case <-q.ctx.Done():
				}
			})
		} else {
			log.Errorf("[JobQueue] Job %s permanently failed after %d retries", job.ID, job.RetryCount)
			q.bumpStats(JobStatusFailed)
		}
	}
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	if job := q.getJob(jobID); job != nil {
		return job, nil
	}
	return nil, fmt.Errorf("job data not found for ID %s", jobID)
}

// GetJobStats returns statistics about terminal job statuses
func (q *Queue) GetJobStats() map[JobStatus]int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make(map[JobStatus]int64, len(q.stats))
	for status, count := range q.stats {
		result[status] = count
	}
	return result
}

// GetQueueSize returns the number of pending jobs
func (q *Queue) GetQueueSize() int {
	return len(q.pending)
}

func (q *Queue) getJob(jobID string) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs[jobID]
}

func (q *Queue) withJob(job *Job, fn func(*Job)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn(job)
}

func (q *Queue) bumpStats(status JobStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stats[status]++
}
