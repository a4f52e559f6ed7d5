package jobqueue

import (
	"time"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/imageprocessor"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeExportImage JobType = "export_image"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// ExportJobPayload carries one item and its fully resolved export
// parameters. The queue never computes geometry itself.
type ExportJobPayload struct {
	Item      *models.Image               `json:"item"`
	Config    imageprocessor.ExportConfig `json:"config"`
	OutputDir string                      `json:"output_dir"`
}

// Job represents one unit of export work.
type Job struct {
	ID          string                     `json:"id"`
	Type        JobType                    `json:"type"`
	Status      JobStatus                  `json:"status"`
	Payload     ExportJobPayload           `json:"payload"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	ProcessedAt *time.Time                 `json:"processed_at,omitempty"`
	CompletedAt *time.Time                 `json:"completed_at,omitempty"`
	ErrorMsg    string                     `json:"error_msg,omitempty"`
	RetryCount  int                        `json:"retry_count"`
	MaxRetries  int                        `json:"max_retries"`
	Result      *imageprocessor.ItemResult `json:"result,omitempty"`
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted(result imageprocessor.ItemResult) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
	j.Result = &result
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
