package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/coach-video-admin/internal/validation"
	"github.com/rs/zerolog"
)

var (
	errNoAccount        = errors.New("no account with this email")
	errProtectedAccount = errors.New("account is protected")
)

type offboardingService struct {
	directory repository.CoachDirectory
	protected map[string]bool
	jobs      JobService
	log       zerolog.Logger
}

func newOffboardingService(directory repository.CoachDirectory, protectedUIDs []string, jobs JobService, log zerolog.Logger) *offboardingService {
	protected := make(map[string]bool, len(protectedUIDs))
	for _, uid := range protectedUIDs {
		protected[uid] = true
	}
	return &offboardingService{
		directory: directory,
		protected: protected,
		jobs:      jobs,
		log:       log.With().Str("service", "offboarding").Logger(),
	}
}

// Offboard deletes the account behind each email. A failing email does not stop the others.
func (s *offboardingService) Offboard(ctx context.Context, emails []string) (*models.OffboardResult, error) {
	job := s.jobs.Begin(ctx, models.JobTypeOffboard, "coaches")

	seen := make(map[string]bool, len(emails))
	targets := make([]string, 0, len(emails))
	for _, e := range emails {
		email := validation.NormalizeEmail(e)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		targets = append(targets, email)
	}
	job.TotalRecords = len(targets)

	deleted, failures, err := runBatch(ctx, targets, ContinueOnItemError, func(ctx context.Context, email string) error {
		coach, err := s.directory.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("look up account: %w", err)
		}
		if coach == nil {
			return errNoAccount
		}
		if s.protected[coach.ID] {
			return errProtectedAccount
		}
		if err := s.directory.Delete(ctx, coach.ID); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		s.log.Info().Str("job_id", job.ID).Str("email", email).Msg("Coach account deleted")
		return nil
	})

	result := &models.OffboardResult{
		JobID:    job.ID,
		Deleted:  deleted,
		Failures: failures,
	}
	if result.Deleted == nil {
		result.Deleted = []string{}
	}

	job.SuccessfulCount = len(deleted)
	job.FailedCount = len(failures)

	status := models.JobStatusCompleted
	if err != nil {
		status = models.JobStatusFailed
	}
	s.jobs.Finish(ctx, job, status, itemErrors("email", failures, nil))

	return result, err
}
