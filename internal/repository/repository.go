package repository

import (
	"context"

	"github.com/coach-video-admin/internal/cloud"
	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/database"
	"github.com/coach-video-admin/internal/models"
)

// CoachDirectory defines the identity directory operations used by the engines
type CoachDirectory interface {
	// ListAll returns every account in the directory, unfiltered and unnormalized
	ListAll(ctx context.Context) ([]models.Coach, error)
	Create(ctx context.Context, name, email, password string) (*models.Coach, error)
	// GetByEmail returns nil, nil when no account has the email
	GetByEmail(ctx context.Context, email string) (*models.Coach, error)
	Delete(ctx context.Context, id string) error
}

// VideoRepository defines the operations on the videos collection
type VideoRepository interface {
	// All returns every video document
	All(ctx context.Context) ([]models.Video, error)
	// Get returns nil, nil when the document does not exist
	Get(ctx context.Context, key string) (*models.Video, error)
	// Create writes a new document under video.Key
	Create(ctx context.Context, video *models.Video) error
	// SetCoaches replaces the coach list of an existing document
	SetCoaches(ctx context.Context, key string, coaches []string) error
	Count(ctx context.Context) (int, error)
}

// BlobRepository lists objects in the video bucket
type BlobRepository interface {
	List(ctx context.Context, bucket string) ([]models.Blob, error)
}

// JobRepository defines the activity ledger operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Job, error)
	AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error
	GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Directory CoachDirectory
	Video     VideoRepository
	Blob      BlobRepository
	Job       JobRepository
}

// New wires the repositories for the configured backends.
// A nil db disables the activity ledger.
func New(cfg *config.Config, clients *cloud.Clients, db *database.DB) *Repositories {
	repos := &Repositories{
		Directory: NewFirebaseDirectory(clients.Auth),
		Blob:      NewGCSBlobRepo(clients.Storage),
		Job:       NewDiscardJobRepo(),
	}

	if cfg.Cloud.DocstoreBackend == config.BackendMongo {
		repos.Video = NewMongoVideoRepo(clients.Mongo.Database(cfg.Cloud.MongoDatabase), cfg.Cloud.VideoCollection)
	} else {
		repos.Video = NewFirestoreVideoRepo(clients.Firestore, cfg.Cloud.VideoCollection)
	}

	if db != nil {
		repos.Job = NewJobRepo(db)
	}
	return repos
}
