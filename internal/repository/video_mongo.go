package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/coach-video-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoVideoRepo stores videos in a MongoDB collection with the video key as _id
type mongoVideoRepo struct {
	coll *mongo.Collection
}

// NewMongoVideoRepo creates a VideoRepository over a MongoDB collection
func NewMongoVideoRepo(db *mongo.Database, collection string) VideoRepository {
	return &mongoVideoRepo{coll: db.Collection(collection)}
}

func (r *mongoVideoRepo) All(ctx context.Context) ([]models.Video, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.coll.Name(), err)
	}
	defer cur.Close(ctx)

	var videos []models.Video
	if err := cur.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	for i := range videos {
		videos[i].Coaches = nonNil(videos[i].Coaches)
	}
	return videos, nil
}

func (r *mongoVideoRepo) Get(ctx context.Context, key string) (*models.Video, error) {
	var video models.Video
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	video.Coaches = nonNil(video.Coaches)
	return &video, nil
}

func (r *mongoVideoRepo) Create(ctx context.Context, video *models.Video) error {
	_, err := r.coll.InsertOne(ctx, bson.M{
		"_id":        video.Key,
		fieldURL:     video.URL,
		fieldCoaches: nonNil(video.Coaches),
	})
	return err
}

func (r *mongoVideoRepo) SetCoaches(ctx context.Context, key string, coaches []string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{fieldCoaches: nonNil(coaches)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("video %q: %w", key, ErrNotFound)
	}
	return nil
}

func (r *mongoVideoRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
