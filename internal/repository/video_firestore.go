package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/coach-video-admin/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when updating a document that does not exist
var ErrNotFound = errors.New("document not found")

// Field names of a video document
const (
	fieldURL     = "URL"
	fieldCoaches = "coaches"
)

// firestoreVideoRepo stores videos as documents keyed by video name
type firestoreVideoRepo struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreVideoRepo creates a VideoRepository over a Firestore collection
func NewFirestoreVideoRepo(client *firestore.Client, collection string) VideoRepository {
	return &firestoreVideoRepo{client: client, collection: collection}
}

func (r *firestoreVideoRepo) All(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video

	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", r.collection, err)
		}
		video, err := decodeVideo(doc)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}
	return videos, nil
}

func (r *firestoreVideoRepo) Get(ctx context.Context, key string) (*models.Video, error) {
	doc, err := r.client.Collection(r.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeVideo(doc)
}

func (r *firestoreVideoRepo) Create(ctx context.Context, video *models.Video) error {
	_, err := r.client.Collection(r.collection).Doc(video.Key).Set(ctx, map[string]interface{}{
		fieldURL:     video.URL,
		fieldCoaches: nonNil(video.Coaches),
	})
	return err
}

func (r *firestoreVideoRepo) SetCoaches(ctx context.Context, key string, coaches []string) error {
	_, err := r.client.Collection(r.collection).Doc(key).Update(ctx, []firestore.Update{
		{Path: fieldCoaches, Value: nonNil(coaches)},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("video %q: %w", key, ErrNotFound)
	}
	return err
}

// Count runs a server-side count aggregation
func (r *firestoreVideoRepo) Count(ctx context.Context) (int, error) {
	result, err := r.client.Collection(r.collection).
		NewAggregationQuery().
		WithCount("all").
		Get(ctx)
	if err != nil {
		return 0, err
	}

	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", result["all"])
	}
	return int(value.GetIntegerValue()), nil
}

func decodeVideo(doc *firestore.DocumentSnapshot) (*models.Video, error) {
	var video models.Video
	if err := doc.DataTo(&video); err != nil {
		return nil, fmt.Errorf("failed to decode video %s: %w", doc.Ref.ID, err)
	}
	video.Key = doc.Ref.ID
	video.Coaches = nonNil(video.Coaches)
	return &video, nil
}

// nonNil keeps coach lists stored as empty arrays rather than null
func nonNil(coaches []string) []string {
	if coaches == nil {
		return []string{}
	}
	return coaches
}
