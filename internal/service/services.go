package service

import (
	"context"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/rs/zerolog"
)

// RosterService builds the coach roster and its default groups
type RosterService interface {
	Build(ctx context.Context) (*models.Roster, error)
	Groups(ctx context.Context) ([]models.CoachGroup, error)
}

// CatalogService reads the video collection
type CatalogService interface {
	Build(ctx context.Context) (*models.Catalog, error)
	Distribution(ctx context.Context) ([]models.VideoLoad, error)
	Count(ctx context.Context) (int, error)
}

// AssignmentService writes coach lists onto videos
type AssignmentService interface {
	Assign(ctx context.Context, videoKeys, coachEmails []string) (*models.UpdateResult, error)
	ResetAll(ctx context.Context) (*models.UpdateResult, error)
}

// OnboardingService creates coach accounts from an uploaded batch
type OnboardingService interface {
	Onboard(ctx context.Context, batch models.UploadBatch) (*models.OnboardResult, error)
}

// OffboardingService deletes coach accounts
type OffboardingService interface {
	Offboard(ctx context.Context, emails []string) (*models.OffboardResult, error)
}

// IngestionService syncs the video bucket into the video collection
type IngestionService interface {
	Ingest(ctx context.Context) (*models.IngestReport, error)
}

// JobService records admin actions in the activity ledger
type JobService interface {
	Begin(ctx context.Context, jobType models.JobType, resource string) *models.Job
	Finish(ctx context.Context, job *models.Job, status models.JobStatus, errs []models.ValidationError)
	GetJob(ctx context.Context, id string) (*models.JobResponse, error)
	GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Job, error)
}

// Services holds all service interfaces
type Services struct {
	Roster      RosterService
	Catalog     CatalogService
	Assignment  AssignmentService
	Onboarding  OnboardingService
	Offboarding OffboardingService
	Ingestion   IngestionService
	Job         JobService
}

type options struct {
	passwords PasswordGenerator
}

// Option customizes NewServices
type Option func(*options)

// WithPasswordGenerator replaces the random password suffix source
func WithPasswordGenerator(gen PasswordGenerator) Option {
	return func(o *options) { o.passwords = gen }
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, opts ...Option) *Services {
	o := options{passwords: RandomSuffix}
	for _, opt := range opts {
		opt(&o)
	}

	jobSvc := newJobService(repos.Job, log)
	rosterSvc := newRosterService(repos.Directory, cfg.Roster, log)

	return &Services{
		Roster:      rosterSvc,
		Catalog:     newCatalogService(repos.Video, log),
		Assignment:  newAssignmentService(repos.Video, jobSvc, log),
		Onboarding:  newOnboardingService(repos.Directory, rosterSvc, jobSvc, o.passwords, log),
		Offboarding: newOffboardingService(repos.Directory, cfg.Roster.ProtectedUIDs, jobSvc, log),
		Ingestion:   newIngestionService(repos.Blob, repos.Video, jobSvc, cfg.Cloud, log),
		Job:         jobSvc,
	}
}
