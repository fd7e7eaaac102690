// Package cloud builds the Google Cloud and MongoDB clients from one service-account credential.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/coach-video-admin/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
)

// Clients holds the external service handles shared by the repositories
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client // nil with the mongo backend
	Storage   *storage.Client
	Mongo     *mongo.Client // nil with the firestore backend

	log zerolog.Logger
}

// ClientOptions turns the configured credential into client options.
// The inline JSON blob wins over the file path.
func ClientOptions(cfg *config.CloudConfig) []option.ClientOption {
	switch {
	case cfg.CredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))}
	case cfg.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
	default:
		return nil
	}
}

// New connects every client the configured backend needs
func New(ctx context.Context, cfg *config.CloudConfig, log zerolog.Logger) (*Clients, error) {
	c := &Clients{log: log.With().Str("component", "cloud").Logger()}
	opts := ClientOptions(cfg)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	c.Auth, err = app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}

	c.Storage, err = storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	switch cfg.DocstoreBackend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		c.Mongo, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := c.Mongo.Ping(connectCtx, nil); err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
	default:
		c.Firestore, err = app.Firestore(ctx)
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
		}
	}

	c.log.Info().
		Str("project", cfg.ProjectID).
		Str("backend", cfg.DocstoreBackend).
		Bool("inline_credentials", cfg.CredentialsJSON != "").
		Msg("Cloud clients initialized")

	return c, nil
}

// Close releases every open client
func (c *Clients) Close(ctx context.Context) error {
	var errs []error
	if c.Firestore != nil {
		errs = append(errs, c.Firestore.Close())
	}
	if c.Storage != nil {
		errs = append(errs, c.Storage.Close())
	}
	if c.Mongo != nil {
		errs = append(errs, c.Mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
