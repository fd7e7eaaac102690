package main

import (
	"context"
	"strings"
	"sync"

	"github.com/coach-video-admin/internal/app"
	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/service"
	"github.com/coach-video-admin/pkg/logger"
	"github.com/rs/zerolog"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	appOnce sync.Once
	app     *app.App
	appErr  error

	// services replaces the real wiring in tests
	services *service.Services
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool, services *service.Services) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
		services:     services,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFrom(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() zerolog.Logger {
	level := "warn"
	if c.logLevelFlag != nil && *c.logLevelFlag != "" {
		level = *c.logLevelFlag
	}
	return logger.New(level, "pretty")
}

// ensureServices connects to the cloud services once per invocation
func (c *commandContext) ensureServices(ctx context.Context) (*service.Services, error) {
	if c.services != nil {
		return c.services, nil
	}
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}
		c.app, c.appErr = app.New(ctx, cfg, c.logger(), false)
	})
	if c.appErr != nil {
		return nil, c.appErr
	}
	return c.app.Services, nil
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) close(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(ctx)
	c.app = nil
	return err
}
