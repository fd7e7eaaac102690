package repository

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/coach-video-admin/internal/models"
	"google.golang.org/api/iterator"
)

// firebaseDirectory is the Firebase Auth backed CoachDirectory
type firebaseDirectory struct {
	client *auth.Client
}

// NewFirebaseDirectory creates a CoachDirectory over Firebase Auth
func NewFirebaseDirectory(client *auth.Client) CoachDirectory {
	return &firebaseDirectory{client: client}
}

// ListAll pages through every user in the project
func (d *firebaseDirectory) ListAll(ctx context.Context) ([]models.Coach, error) {
	var coaches []models.Coach

	iter := d.client.Users(ctx, "")
	for {
		user, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		coaches = append(coaches, models.Coach{
			ID:    user.UID,
			Name:  user.DisplayName,
			Email: user.Email,
		})
	}
	return coaches, nil
}

func (d *firebaseDirectory) Create(ctx context.Context, name, email, password string) (*models.Coach, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	user, err := d.client.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return &models.Coach{ID: user.UID, Name: user.DisplayName, Email: user.Email}, nil
}

func (d *firebaseDirectory) GetByEmail(ctx context.Context, email string) (*models.Coach, error) {
	user, err := d.client.GetUserByEmail(ctx, email)
	if auth.IsUserNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Coach{ID: user.UID, Name: user.DisplayName, Email: user.Email}, nil
}

func (d *firebaseDirectory) Delete(ctx context.Context, id string) error {
	return d.client.DeleteUser(ctx, id)
}
