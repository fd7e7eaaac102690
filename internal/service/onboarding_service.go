package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/coach-video-admin/internal/validation"
	"github.com/rs/zerolog"
)

const minPasswordLength = 6

// PasswordGenerator returns the numeric password suffix, in [0, 1000)
type PasswordGenerator func() int

// RandomSuffix is the default PasswordGenerator
func RandomSuffix() int {
	return rand.IntN(1000)
}

// GeneratePassword builds an initial password from the first name and a numeric
// suffix, right-padded with zeros to six characters.
func GeneratePassword(name string, gen PasswordGenerator) string {
	password := validation.Capitalize(validation.FirstToken(name)) + strconv.Itoa(gen())
	if n := utf8.RuneCountInString(password); n < minPasswordLength {
		password += strings.Repeat("0", minPasswordLength-n)
	}
	return password
}

type onboardingService struct {
	directory repository.CoachDirectory
	roster    RosterService
	jobs      JobService
	passwords PasswordGenerator
	log       zerolog.Logger
}

func newOnboardingService(
	directory repository.CoachDirectory,
	roster RosterService,
	jobs JobService,
	passwords PasswordGenerator,
	log zerolog.Logger,
) *onboardingService {
	return &onboardingService{
		directory: directory,
		roster:    roster,
		jobs:      jobs,
		passwords: passwords,
		log:       log.With().Str("service", "onboarding").Logger(),
	}
}

// Onboard creates accounts for the batch rows that are not on the roster yet.
// Nothing is written when any new email is malformed.
func (s *onboardingService) Onboard(ctx context.Context, batch models.UploadBatch) (*models.OnboardResult, error) {
	names := make(map[string]string, len(batch.Rows))
	lines := make(map[string]int, len(batch.Rows))
	uploaded := make([]string, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		email := validation.NormalizeEmail(row.Email)
		if _, dup := names[email]; !dup {
			uploaded = append(uploaded, email)
		}
		// last row wins
		names[email] = validation.NormalizeName(row.Name)
		lines[email] = row.Line
	}

	roster, err := s.roster.Build(ctx)
	if err != nil {
		return nil, err
	}

	job := s.jobs.Begin(ctx, models.JobTypeOnboard, batch.Filename)
	job.TotalRecords = len(uploaded)

	newEmails := validation.SortedDifference(uploaded, roster.EmailSet())
	job.SkippedCount = len(uploaded) - len(newEmails)

	if len(newEmails) == 0 {
		s.jobs.Finish(ctx, job, models.JobStatusCompleted, nil)
		return &models.OnboardResult{Outcome: models.OnboardNoNewCoaches, JobID: job.ID}, nil
	}

	if invalid := validation.InvalidEmails(newEmails); len(invalid) > 0 {
		errs := validation.EmailErrors(invalid)
		for i := range errs {
			errs[i].Line = lines[invalid[i]]
		}
		job.FailedCount = len(invalid)
		s.jobs.Finish(ctx, job, models.JobStatusRejected, errs)

		s.log.Warn().
			Str("job_id", job.ID).
			Int("invalid", len(invalid)).
			Msg("Onboarding batch rejected")

		return &models.OnboardResult{Outcome: models.OnboardRejected, JobID: job.ID, Invalid: invalid}, nil
	}

	result := &models.OnboardResult{
		Outcome:     models.OnboardCreated,
		JobID:       job.ID,
		Credentials: []models.Credential{},
	}

	_, failures, err := runBatch(ctx, newEmails, ContinueOnItemError, func(ctx context.Context, email string) error {
		name := names[email]
		password := GeneratePassword(name, s.passwords)

		if _, err := s.directory.Create(ctx, name, email, password); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Str("email", email).Msg("Failed to create coach account")
			return fmt.Errorf("create account: %w", err)
		}
		result.Credentials = append(result.Credentials, models.Credential{
			Name:     name,
			Email:    email,
			Password: password,
		})
		return nil
	})
	result.Failures = failures

	job.SuccessfulCount = len(result.Credentials)
	job.FailedCount = len(failures)

	if err != nil {
		s.jobs.Finish(ctx, job, models.JobStatusFailed, itemErrors("email", failures, lines))
		return result, err
	}
	if len(result.Credentials) == 0 {
		result.Outcome = models.OnboardFailed
		s.jobs.Finish(ctx, job, models.JobStatusFailed, itemErrors("email", failures, lines))
		s.log.Warn().Str("job_id", job.ID).Int("failed", len(failures)).Msg("No coach account could be created")
		return result, nil
	}
	s.jobs.Finish(ctx, job, models.JobStatusCompleted, itemErrors("email", failures, lines))

	s.log.Info().
		Str("job_id", job.ID).
		Int("created", len(result.Credentials)).
		Int("failed", len(failures)).
		Int("existing", job.SkippedCount).
		Msg("Onboarding completed")

	return result, nil
}
