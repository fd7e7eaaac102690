package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coach-video-admin/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// JobHandler serves the activity ledger
type JobHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(services *service.Services, log zerolog.Logger) *JobHandler {
	return &JobHandler{
		services: services,
		log:      log.With().Str("handler", "job").Logger(),
	}
}

// ListJobs handles GET /v1/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	jobs, err := h.services.Job.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err, "failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// GetJob handles GET /v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.services.Job.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.log, err, "failed to get job")
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetJobErrors handles GET /v1/jobs/:job_id/errors
func (h *JobHandler) GetJobErrors(c *gin.Context) {
	jobID := c.Param("job_id")

	errors, err := h.services.Job.GetJobErrors(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.log, err, "failed to get job errors")
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=errors_%s.csv", jobID))
		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"line", "field", "message", "value"})
		for _, e := range errors {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf("%v", e.Value)
			}
			writer.Write([]string{strconv.Itoa(e.Line), e.Field, e.Message, value})
		}
		writer.Flush()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":      jobID,
		"error_count": len(errors),
		"errors":      errors,
	})
}
