// Package app wires configuration, clients, repositories and services for the binaries.
package app

import (
	"context"
	"errors"

	"github.com/coach-video-admin/internal/cloud"
	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/database"
	"github.com/coach-video-admin/internal/repository"
	"github.com/coach-video-admin/internal/service"
	"github.com/rs/zerolog"
)

// App holds everything a binary needs to serve requests
type App struct {
	Config   *config.Config
	Clients  *cloud.Clients
	DB       *database.DB // nil when the activity ledger is disabled
	Services *service.Services
	Log      zerolog.Logger
}

// New connects the external services and builds the service layer.
// With runMigrations set, pending ledger migrations are applied first.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, runMigrations bool) (*App, error) {
	a := &App{Config: cfg, Log: log}

	clients, err := cloud.New(ctx, &cfg.Cloud, log)
	if err != nil {
		return nil, err
	}
	a.Clients = clients

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.DB = db

		if runMigrations {
			if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
				a.Close(ctx)
				return nil, err
			}
		}
	} else {
		log.Warn().Msg("Activity ledger disabled, jobs will not be recorded")
	}

	repos := repository.New(cfg, clients, a.DB)
	a.Services = service.NewServices(repos, cfg, log)
	return a, nil
}

// Close releases the database and cloud clients
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Clients != nil {
		errs = append(errs, a.Clients.Close(ctx))
	}
	return errors.Join(errs...)
}
