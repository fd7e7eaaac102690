package repository

import (
	"context"

	"github.com/coach-video-admin/internal/models"
)

// discardJobRepo is used when the activity ledger is disabled.
// Writes succeed and nothing is ever found.
type discardJobRepo struct{}

// NewDiscardJobRepo returns a JobRepository that stores nothing
func NewDiscardJobRepo() JobRepository {
	return discardJobRepo{}
}

func (discardJobRepo) Create(context.Context, *models.Job) error { return nil }
func (discardJobRepo) Update(context.Context, *models.Job) error { return nil }

func (discardJobRepo) GetByID(context.Context, string) (*models.Job, error) { return nil, nil }

func (discardJobRepo) ListRecent(context.Context, int) ([]*models.Job, error) { return nil, nil }

func (discardJobRepo) AddErrors(context.Context, string, []models.ValidationError) error {
	return nil
}

func (discardJobRepo) GetErrors(context.Context, string, int) ([]models.ValidationError, error) {
	return nil, nil
}
