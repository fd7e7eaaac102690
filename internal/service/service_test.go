package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/mocks"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/coach-video-admin/internal/service"
	"github.com/rs/zerolog"
)

var errBackend = errors.New("backend unavailable")

type testEnv struct {
	cfg       *config.Config
	directory *mocks.MockCoachDirectory
	videos    *mocks.MockVideoRepository
	blobs     *mocks.MockBlobRepository
	jobs      *mocks.MockJobRepository
	services  *service.Services
}

func newTestEnv(t *testing.T, opts ...service.Option) *testEnv {
	t.Helper()

	env := &testEnv{
		cfg:       config.Default(),
		directory: mocks.NewMockCoachDirectory(),
		videos:    mocks.NewMockVideoRepository(),
		blobs:     &mocks.MockBlobRepository{},
		jobs:      mocks.NewMockJobRepository(),
	}
	env.build(opts...)
	return env
}

// build recreates the services after cfg changes
func (e *testEnv) build(opts ...service.Option) {
	repos := &repository.Repositories{
		Directory: e.directory,
		Video:     e.videos,
		Blob:      e.blobs,
		Job:       e.jobs,
	}
	e.services = service.NewServices(repos, e.cfg, zerolog.Nop(), opts...)
}

func fixedSuffix(n int) service.PasswordGenerator {
	return func() int { return n }
}

func TestJobService_GetJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job := env.services.Job.Begin(ctx, models.JobTypeOffboard, "coaches")
	job.TotalRecords = 2
	job.SuccessfulCount = 1
	job.FailedCount = 1
	env.services.Job.Finish(ctx, job, models.JobStatusCompleted, []models.ValidationError{
		{Field: "email", Message: "no account with this email", Value: "gone@example.com"},
	})

	resp, err := env.services.Job.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if resp == nil {
		t.Fatal("Expected job response, got nil")
	}
	if resp.Status != models.JobStatusCompleted {
		t.Errorf("Expected status completed, got %s", resp.Status)
	}
	if resp.CompletedAt == nil {
		t.Error("Expected completed_at to be set")
	}
	if resp.ErrorCount != 1 || len(resp.Errors) != 1 {
		t.Errorf("Expected 1 error, got count=%d errors=%d", resp.ErrorCount, len(resp.Errors))
	}
	if resp.ErrorReport != "/v1/jobs/"+job.ID+"/errors" {
		t.Errorf("Unexpected error report URL: %s", resp.ErrorReport)
	}
}

func TestJobService_GetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.services.Job.GetJob(context.Background(), "non-existent")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if resp != nil {
		t.Error("Expected nil response for non-existent job")
	}
}

func TestJobService_ListRecent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.services.Job.Begin(ctx, models.JobTypeAssign, "videos")
	second := env.services.Job.Begin(ctx, models.JobTypeReset, "videos")

	jobs, err := env.services.Job.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != second.ID || jobs[1].ID != first.ID {
		t.Error("Expected newest job first")
	}
}

func TestJobService_LedgerFailureDoesNotFailAction(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.CreateError = errBackend
	env.jobs.UpdateError = errBackend
	env.videos.Videos["intro"] = &models.Video{Key: "intro", URL: "https://x/b/basics/intro.mp4", Coaches: []string{}}

	result, err := env.services.Assignment.Assign(context.Background(), []string{"intro"}, []string{"a@x.com"})
	if err != nil {
		t.Fatalf("Expected assignment to succeed despite ledger errors, got %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("Expected 1 video updated, got %d", result.Updated)
	}
}

func TestFailurePolicy_String(t *testing.T) {
	if got := service.AbortOnFirstError.String(); got != "abort_on_first_error" {
		t.Errorf("Unexpected name %q", got)
	}
	if got := service.ContinueOnItemError.String(); got != "continue_on_item_error" {
		t.Errorf("Unexpected name %q", got)
	}
}
