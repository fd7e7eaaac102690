package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/rs/zerolog"
)

type assignmentService struct {
	videos repository.VideoRepository
	jobs   JobService
	log    zerolog.Logger
}

func newAssignmentService(videos repository.VideoRepository, jobs JobService, log zerolog.Logger) *assignmentService {
	return &assignmentService{
		videos: videos,
		jobs:   jobs,
		log:    log.With().Str("service", "assignment").Logger(),
	}
}

// Assign replaces the coach list of each video in order.
// The first failed write stops the run; earlier writes are kept.
func (s *assignmentService) Assign(ctx context.Context, videoKeys, coachEmails []string) (*models.UpdateResult, error) {
	job := s.jobs.Begin(ctx, models.JobTypeAssign, "videos")
	job.TotalRecords = len(videoKeys)

	coaches := append([]string{}, coachEmails...)
	updated, _, err := runBatch(ctx, videoKeys, AbortOnFirstError, func(ctx context.Context, key string) error {
		return s.videos.SetCoaches(ctx, key, coaches)
	})

	return s.finish(ctx, job, updated, videoKeys, err)
}

// ResetAll clears the coach list of every video
func (s *assignmentService) ResetAll(ctx context.Context) (*models.UpdateResult, error) {
	job := s.jobs.Begin(ctx, models.JobTypeReset, "videos")

	videos, err := s.videos.All(ctx)
	if err != nil {
		s.jobs.Finish(ctx, job, models.JobStatusFailed, []models.ValidationError{
			{Field: "videos", Message: err.Error()},
		})
		return nil, upstream("read videos", err)
	}

	keys := make([]string, len(videos))
	for i, v := range videos {
		keys[i] = v.Key
	}
	job.TotalRecords = len(keys)

	updated, _, err := runBatch(ctx, keys, AbortOnFirstError, func(ctx context.Context, key string) error {
		return s.videos.SetCoaches(ctx, key, []string{})
	})

	return s.finish(ctx, job, updated, keys, err)
}

func (s *assignmentService) finish(ctx context.Context, job *models.Job, updated, keys []string, err error) (*models.UpdateResult, error) {
	job.SuccessfulCount = len(updated)
	result := &models.UpdateResult{JobID: job.ID, Updated: len(updated)}

	if err != nil {
		failedKey := keys[len(updated)]
		job.FailedCount = 1
		job.SkippedCount = len(keys) - len(updated) - 1
		s.jobs.Finish(ctx, job, models.JobStatusFailed, []models.ValidationError{
			{Line: len(updated) + 1, Field: "video", Message: err.Error(), Value: failedKey},
		})
		if errors.Is(err, ErrNotFound) {
			return result, fmt.Errorf("update video %s: %w", failedKey, err)
		}
		return result, upstream("update video "+failedKey, err)
	}

	s.jobs.Finish(ctx, job, models.JobStatusCompleted, nil)
	return result, nil
}
