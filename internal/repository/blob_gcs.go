package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/coach-video-admin/internal/models"
	"google.golang.org/api/iterator"
)

type gcsBlobRepo struct {
	client *storage.Client
}

// NewGCSBlobRepo creates a BlobRepository over Cloud Storage
func NewGCSBlobRepo(client *storage.Client) BlobRepository {
	return &gcsBlobRepo{client: client}
}

// List returns every object name in the bucket
func (r *gcsBlobRepo) List(ctx context.Context, bucket string) ([]models.Blob, error) {
	var blobs []models.Blob

	it := r.client.Bucket(bucket).Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, err)
		}
		blobs = append(blobs, models.Blob{Name: attrs.Name})
	}
	return blobs, nil
}
