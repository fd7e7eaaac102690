package mocks

import (
	"context"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/service"
)

// Verify interface compliance
var (
	_ service.RosterService      = (*MockRosterService)(nil)
	_ service.CatalogService     = (*MockCatalogService)(nil)
	_ service.AssignmentService  = (*MockAssignmentService)(nil)
	_ service.OnboardingService  = (*MockOnboardingService)(nil)
	_ service.OffboardingService = (*MockOffboardingService)(nil)
	_ service.IngestionService   = (*MockIngestionService)(nil)
	_ service.JobService         = (*MockJobService)(nil)
)

// MockRosterService returns a fixed roster
type MockRosterService struct {
	Roster      *models.Roster
	CoachGroups []models.CoachGroup
	Err         error
	BuildCalls  int
}

func (m *MockRosterService) Build(ctx context.Context) (*models.Roster, error) {
	m.BuildCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Roster == nil {
		return &models.Roster{}, nil
	}
	return m.Roster, nil
}

func (m *MockRosterService) Groups(ctx context.Context) ([]models.CoachGroup, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CoachGroups, nil
}

// MockCatalogService returns fixed catalog data
type MockCatalogService struct {
	Catalog *models.Catalog
	Loads   []models.VideoLoad
	Videos  int
	Err     error
}

func (m *MockCatalogService) Build(ctx context.Context) (*models.Catalog, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Catalog, nil
}

func (m *MockCatalogService) Distribution(ctx context.Context) ([]models.VideoLoad, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Loads, nil
}

func (m *MockCatalogService) Count(ctx context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Videos, nil
}

// MockAssignmentService records the requested assignments
type MockAssignmentService struct {
	AssignedVideos  []string
	AssignedCoaches []string
	AssignCalls     int
	ResetCalls      int
	Err             error
}

func (m *MockAssignmentService) Assign(ctx context.Context, videoKeys, coachEmails []string) (*models.UpdateResult, error) {
	m.AssignCalls++
	m.AssignedVideos = videoKeys
	m.AssignedCoaches = coachEmails
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.UpdateResult{JobID: "assign-job", Updated: len(videoKeys)}, nil
}

func (m *MockAssignmentService) ResetAll(ctx context.Context) (*models.UpdateResult, error) {
	m.ResetCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.UpdateResult{JobID: "reset-job", Updated: 3}, nil
}

// MockOnboardingService returns a fixed result. Result and Err are returned together,
// like an onboarding run interrupted after creating some accounts.
type MockOnboardingService struct {
	Result  *models.OnboardResult
	Err     error
	Batches []models.UploadBatch
}

func (m *MockOnboardingService) Onboard(ctx context.Context, batch models.UploadBatch) (*models.OnboardResult, error) {
	m.Batches = append(m.Batches, batch)
	return m.Result, m.Err
}

// MockOffboardingService reports every email as deleted unless Err is set
type MockOffboardingService struct {
	Emails []string
	Err    error
}

func (m *MockOffboardingService) Offboard(ctx context.Context, emails []string) (*models.OffboardResult, error) {
	m.Emails = emails
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.OffboardResult{JobID: "offboard-job", Deleted: emails}, nil
}

// MockIngestionService returns a fixed report
type MockIngestionService struct {
	Report *models.IngestReport
	Err    error
}

func (m *MockIngestionService) Ingest(ctx context.Context) (*models.IngestReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Report, nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	Jobs      map[string]*models.JobResponse
	JobErrors map[string][]models.ValidationError
	Recent    []*models.Job
}

func NewMockJobService() *MockJobService {
	return &MockJobService{
		Jobs:      make(map[string]*models.JobResponse),
		JobErrors: make(map[string][]models.ValidationError),
	}
}

func (m *MockJobService) Begin(ctx context.Context, jobType models.JobType, resource string) *models.Job {
	return &models.Job{ID: "mock-job", Type: jobType, Resource: resource, Status: models.JobStatusRunning}
}

func (m *MockJobService) Finish(ctx context.Context, job *models.Job, status models.JobStatus, errs []models.ValidationError) {
	job.Status = status
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	return m.Jobs[id], nil
}

func (m *MockJobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	return m.JobErrors[id], nil
}

func (m *MockJobService) ListRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	return m.Recent, nil
}
