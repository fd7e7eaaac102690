package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
)

var (
	_ repository.CoachDirectory  = (*MockCoachDirectory)(nil)
	_ repository.VideoRepository = (*MockVideoRepository)(nil)
	_ repository.BlobRepository  = (*MockBlobRepository)(nil)
	_ repository.JobRepository   = (*MockJobRepository)(nil)
)

// MockCoachDirectory is an in-memory identity directory keyed by uid
type MockCoachDirectory struct {
	Accounts  map[string]*models.Coach
	Passwords map[string]string // email -> password given to Create
	ListError error
	GetError  error
	// CreateErrors and DeleteErrors fail the call for a specific email or uid
	CreateErrors map[string]error
	DeleteErrors map[string]error
	Deleted      []string
	CreateCalls  int
	// AfterCreate runs after each successful Create
	AfterCreate func(email string)
	nextID      int
}

func NewMockCoachDirectory(accounts ...models.Coach) *MockCoachDirectory {
	m := &MockCoachDirectory{
		Accounts:     make(map[string]*models.Coach),
		Passwords:    make(map[string]string),
		CreateErrors: make(map[string]error),
		DeleteErrors: make(map[string]error),
	}
	for i := range accounts {
		a := accounts[i]
		m.Accounts[a.ID] = &a
	}
	return m
}

func (m *MockCoachDirectory) ListAll(ctx context.Context) ([]models.Coach, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	ids := make([]string, 0, len(m.Accounts))
	for id := range m.Accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	coaches := make([]models.Coach, 0, len(ids))
	for _, id := range ids {
		coaches = append(coaches, *m.Accounts[id])
	}
	return coaches, nil
}

func (m *MockCoachDirectory) Create(ctx context.Context, name, email, password string) (*models.Coach, error) {
	m.CreateCalls++
	if err := m.CreateErrors[email]; err != nil {
		return nil, err
	}
	for _, a := range m.Accounts {
		if a.Email == email {
			return nil, fmt.Errorf("email already exists: %s", email)
		}
	}
	m.nextID++
	coach := &models.Coach{ID: fmt.Sprintf("uid-new-%d", m.nextID), Name: name, Email: email}
	m.Accounts[coach.ID] = coach
	m.Passwords[email] = password
	if m.AfterCreate != nil {
		m.AfterCreate(email)
	}
	return coach, nil
}

func (m *MockCoachDirectory) GetByEmail(ctx context.Context, email string) (*models.Coach, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.Accounts {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCoachDirectory) Delete(ctx context.Context, id string) error {
	if err := m.DeleteErrors[id]; err != nil {
		return err
	}
	if _, ok := m.Accounts[id]; !ok {
		return fmt.Errorf("no user record for uid %s", id)
	}
	delete(m.Accounts, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockVideoRepository is an in-memory video collection
type MockVideoRepository struct {
	Videos   map[string]*models.Video
	AllError error
	GetError error
	// SetErrors fails SetCoaches for a specific key
	SetErrors   map[string]error
	CreateError error
	// SetCalls records the keys passed to SetCoaches, in order
	SetCalls    []string
	CreateCalls int
}

func NewMockVideoRepository(videos ...models.Video) *MockVideoRepository {
	m := &MockVideoRepository{
		Videos:    make(map[string]*models.Video),
		SetErrors: make(map[string]error),
	}
	for i := range videos {
		v := videos[i]
		m.Videos[v.Key] = &v
	}
	return m
}

func (m *MockVideoRepository) All(ctx context.Context) ([]models.Video, error) {
	if m.AllError != nil {
		return nil, m.AllError
	}
	keys := make([]string, 0, len(m.Videos))
	for k := range m.Videos {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	videos := make([]models.Video, 0, len(keys))
	for _, k := range keys {
		videos = append(videos, *m.Videos[k])
	}
	return videos, nil
}

func (m *MockVideoRepository) Get(ctx context.Context, key string) (*models.Video, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	v, ok := m.Videos[key]
	if !ok {
		return nil, nil
	}
	c := *v
	return &c, nil
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	v := *video
	m.Videos[v.Key] = &v
	return nil
}

func (m *MockVideoRepository) SetCoaches(ctx context.Context, key string, coaches []string) error {
	m.SetCalls = append(m.SetCalls, key)
	if err := m.SetErrors[key]; err != nil {
		return err
	}
	v, ok := m.Videos[key]
	if !ok {
		return fmt.Errorf("video %q: %w", key, repository.ErrNotFound)
	}
	v.Coaches = append([]string{}, coaches...)
	return nil
}

func (m *MockVideoRepository) Count(ctx context.Context) (int, error) {
	if m.AllError != nil {
		return 0, m.AllError
	}
	return len(m.Videos), nil
}

// MockBlobRepository returns a fixed object listing
type MockBlobRepository struct {
	Blobs     []models.Blob
	ListError error
	Buckets   []string
}

func (m *MockBlobRepository) List(ctx context.Context, bucket string) ([]models.Blob, error) {
	m.Buckets = append(m.Buckets, bucket)
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Blobs, nil
}

// MockJobRepository is an in-memory activity ledger
type MockJobRepository struct {
	mu          sync.Mutex
	Jobs        map[string]*models.Job
	Order       []string
	Errors      map[string][]models.ValidationError
	CreateError error
	UpdateError error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs:   make(map[string]*models.Job),
		Errors: make(map[string][]models.ValidationError),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	j := *job
	m.Jobs[job.ID] = &j
	m.Order = append(m.Order, job.ID)
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	j := *job
	m.Jobs[job.ID] = &j
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.Jobs[id]
	if !ok {
		return nil, nil
	}
	c := *j
	return &c, nil
}

func (m *MockJobRepository) ListRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var jobs []*models.Job
	for i := len(m.Order) - 1; i >= 0 && len(jobs) < limit; i-- {
		c := *m.Jobs[m.Order[i]]
		jobs = append(jobs, &c)
	}
	return jobs, nil
}

func (m *MockJobRepository) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[jobID] = append(m.Errors[jobID], errors...)
	return nil
}

func (m *MockJobRepository) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	errors := m.Errors[jobID]
	if limit > 0 && len(errors) > limit {
		return errors[:limit], nil
	}
	return errors, nil
}

// Last returns the most recently created job
func (m *MockJobRepository) Last() *models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Order) == 0 {
		return nil
	}
	return m.Jobs[m.Order[len(m.Order)-1]]
}
