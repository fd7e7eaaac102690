package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/service"
	"github.com/coach-video-admin/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	coachHandler := NewCoachHandler(services, cfg, log)
	videoHandler := NewVideoHandler(services, log)
	jobHandler := NewJobHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services, log))

	// API v1
	v1 := router.Group("/v1")
	{
		coaches := v1.Group("/coaches")
		{
			coaches.GET("", coachHandler.ListCoaches)
			coaches.GET("/groups", coachHandler.ListGroups)
			coaches.POST("/import", coachHandler.ImportCoaches)
			coaches.POST("/delete", coachHandler.DeleteCoaches)
		}

		videos := v1.Group("/videos")
		{
			videos.GET("/catalog", videoHandler.GetCatalog)
			videos.GET("/distribution", videoHandler.GetDistribution)
			videos.PUT("/coaches", videoHandler.AssignCoaches)
			videos.POST("/reset", videoHandler.ResetCoaches)
			videos.POST("/ingest", videoHandler.IngestBucket)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.GET("/:job_id/errors", jobHandler.GetJobErrors)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   logger.ServiceName,
	})
}

// metricsHandler returns coach and video counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		roster, err := services.Roster.Build(ctx)
		if err != nil {
			respondError(c, log, err, "failed to count coaches")
			return
		}
		videos, err := services.Catalog.Count(ctx)
		if err != nil {
			respondError(c, log, err, "failed to count videos")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"counts":    models.Stats{Coaches: len(roster.Coaches), Videos: videos},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// respondError maps upstream failures to 502 and everything else to 500
func respondError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUpstream):
		status = http.StatusBadGateway
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString(requestIDHeader)).
		Int("status", status).
		Msg(msg)

	c.JSON(status, gin.H{"error": msg, "detail": err.Error()})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates or assigns X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString(requestIDHeader)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Job-ID, X-Failed-Count, "+requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
