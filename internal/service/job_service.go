package service

import (
	"context"
	"time"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxInlineErrors caps the errors embedded in a job response
const maxInlineErrors = 100

// jobService is the concrete implementation of JobService.
// Ledger failures are logged and never returned to the action being recorded.
type jobService struct {
	jobRepo repository.JobRepository
	log     zerolog.Logger
	now     func() time.Time
}

func newJobService(jobRepo repository.JobRepository, log zerolog.Logger) *jobService {
	return &jobService{
		jobRepo: jobRepo,
		log:     log.With().Str("service", "job").Logger(),
		now:     time.Now,
	}
}

// Begin creates a running job record
func (s *jobService) Begin(ctx context.Context, jobType models.JobType, resource string) *models.Job {
	now := s.now()
	job := &models.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Resource:  resource,
		Status:    models.JobStatusRunning,
		CreatedAt: now,
		StartedAt: &now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Str("type", string(jobType)).Msg("Failed to record job start")
	}
	return job
}

// Finish stamps the final status and stores the item errors
func (s *jobService) Finish(ctx context.Context, job *models.Job, status models.JobStatus, errs []models.ValidationError) {
	completedAt := s.now()
	job.Status = status
	job.CompletedAt = &completedAt
	if job.StartedAt != nil {
		job.DurationMs = completedAt.Sub(*job.StartedAt).Milliseconds()
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to record job result")
	}
	if err := s.jobRepo.AddErrors(ctx, job.ID, errs); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Int("errors", len(errs)).Msg("Failed to record job errors")
	}

	event := s.log.Info()
	if status == models.JobStatusFailed {
		event = s.log.Warn()
	}
	event.
		Str("job_id", job.ID).
		Str("type", string(job.Type)).
		Str("status", string(status)).
		Int("total", job.TotalRecords).
		Int("successful", job.SuccessfulCount).
		Int("skipped", job.SkippedCount).
		Int("failed", job.FailedCount).
		Int64("duration_ms", job.DurationMs).
		Msg("Job finished")
}

// GetJob retrieves a job by ID with its first errors
func (s *jobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	errors, err := s.jobRepo.GetErrors(ctx, id, maxInlineErrors)
	if err != nil {
		s.log.Error().Err(err).Str("job_id", id).Msg("Failed to get job errors")
	}

	response := &models.JobResponse{
		Job:        *job,
		Errors:     errors,
		ErrorCount: job.FailedCount,
	}

	if len(errors) > 0 {
		response.ErrorReport = "/v1/jobs/" + job.ID + "/errors"
	}

	return response, nil
}

// GetJobErrors retrieves all errors for a job
func (s *jobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	return s.jobRepo.GetErrors(ctx, id, 0)
}

func (s *jobService) ListRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.jobRepo.ListRecent(ctx, limit)
}
