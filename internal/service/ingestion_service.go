package service

import (
	"context"
	"strings"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/rs/zerolog"
)

type ingestionService struct {
	blobs     repository.BlobRepository
	videos    repository.VideoRepository
	jobs      JobService
	bucket    string
	urlPrefix string
	log       zerolog.Logger
}

func newIngestionService(
	blobs repository.BlobRepository,
	videos repository.VideoRepository,
	jobs JobService,
	cfg config.CloudConfig,
	log zerolog.Logger,
) *ingestionService {
	return &ingestionService{
		blobs:     blobs,
		videos:    videos,
		jobs:      jobs,
		bucket:    cfg.Bucket,
		urlPrefix: strings.TrimRight(cfg.PublicURLPrefix, "/"),
		log:       log.With().Str("service", "ingestion").Logger(),
	}
}

// VideoURL is the public URL of an object in the bucket
func (s *ingestionService) VideoURL(objectName string) string {
	return s.urlPrefix + "/" + s.bucket + "/" + objectName
}

// Ingest creates a video document for every bucket object that has none.
// Existing documents are left untouched; a key already used by another category is reported.
func (s *ingestionService) Ingest(ctx context.Context) (*models.IngestReport, error) {
	job := s.jobs.Begin(ctx, models.JobTypeIngest, s.bucket)
	report := &models.IngestReport{JobID: job.ID}

	blobs, err := s.blobs.List(ctx, s.bucket)
	if err != nil {
		s.jobs.Finish(ctx, job, models.JobStatusFailed, []models.ValidationError{
			{Field: "bucket", Message: err.Error(), Value: s.bucket},
		})
		return nil, upstream("list bucket "+s.bucket, err)
	}

	for i, blob := range blobs {
		if strings.HasSuffix(blob.Name, "/") {
			continue // folder placeholder
		}
		key := VideoKey(blob.Name)
		if key == "" {
			s.log.Warn().Str("blob", blob.Name).Msg("Skipping object without a usable name")
			job.SkippedCount++
			continue
		}
		job.TotalRecords++

		url := s.VideoURL(blob.Name)
		existing, err := s.videos.Get(ctx, key)
		if err == nil && existing == nil {
			err = s.videos.Create(ctx, &models.Video{Key: key, URL: url, Coaches: []string{}})
			if err == nil {
				report.New++
				report.Added = append(report.Added, key)
				s.log.Debug().Str("key", key).Str("url", url).Msg("Video added")
				continue
			}
		}
		if err != nil {
			job.SuccessfulCount = report.New
			job.FailedCount = 1
			s.jobs.Finish(ctx, job, models.JobStatusFailed, []models.ValidationError{
				{Line: i + 1, Field: "blob", Message: err.Error(), Value: blob.Name},
			})
			return report, upstream("ingest "+blob.Name, err)
		}

		report.Existing++
		blobCategory, _ := ParseVideoURL(url)
		if existingCategory, _ := ParseVideoURL(existing.URL); existingCategory != blobCategory {
			report.Collisions = append(report.Collisions, models.Collision{
				Key:         key,
				BlobName:    blob.Name,
				ExistingURL: existing.URL,
			})
		}
	}

	job.SuccessfulCount = report.New
	job.SkippedCount += report.Existing

	errs := make([]models.ValidationError, 0, len(report.Collisions))
	for _, c := range report.Collisions {
		errs = append(errs, models.ValidationError{
			Field:   "key",
			Message: "key already used by " + c.ExistingURL,
			Value:   c.BlobName,
		})
	}
	s.jobs.Finish(ctx, job, models.JobStatusCompleted, errs)

	s.log.Info().
		Str("job_id", job.ID).
		Int("new", report.New).
		Int("existing", report.Existing).
		Int("collisions", len(report.Collisions)).
		Msg("Bucket ingested")

	return report, nil
}
