package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coach-video-admin/internal/batchfile"
	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CoachHandler handles roster, onboarding and offboarding endpoints
type CoachHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewCoachHandler creates a new CoachHandler
func NewCoachHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CoachHandler {
	return &CoachHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "coach").Logger(),
	}
}

// ListCoaches handles GET /v1/coaches
func (h *CoachHandler) ListCoaches(c *gin.Context) {
	roster, err := h.services.Roster.Build(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load coaches")
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ListGroups handles GET /v1/coaches/groups
func (h *CoachHandler) ListGroups(c *gin.Context) {
	groups, err := h.services.Roster.Groups(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load coach groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ImportCoaches handles POST /v1/coaches/import.
// On success the generated logins are returned once as a CSV attachment.
func (h *CoachHandler) ImportCoaches(c *gin.Context) {
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required (.csv or .xlsx)"})
		return
	}
	defer file.Close()

	// Validate file size
	if header.Size > h.cfg.Import.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024)),
		})
		return
	}

	batch, err := batchfile.Parse(header.Filename, file, batchfile.ParseOptions{})
	if err != nil {
		h.respondParseError(c, err)
		return
	}

	result, err := h.services.Onboarding.Onboard(ctx, batch)
	if err != nil {
		if result != nil && len(result.Credentials) > 0 {
			// accounts already exist, their passwords must still reach the caller
			h.log.Error().Err(err).Str("job_id", result.JobID).Int("created", len(result.Credentials)).
				Msg("Coach import interrupted after creating accounts")
			h.respondCredentials(c, http.StatusInternalServerError, result, err.Error())
			return
		}
		respondError(c, h.log, err, "failed to import coaches")
		return
	}

	h.log.Info().
		Str("job_id", result.JobID).
		Str("file", header.Filename).
		Int("rows", len(batch.Rows)).
		Str("outcome", string(result.Outcome)).
		Msg("Coach import finished")

	switch {
	case result.Outcome == models.OnboardRejected:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "invalid email addresses, no accounts were created",
			"job_id":         result.JobID,
			"invalid_emails": result.Invalid,
		})
	case len(result.Credentials) == 0:
		c.JSON(http.StatusOK, result)
	case len(result.Failures) > 0:
		h.respondCredentials(c, http.StatusOK, result, "")
	default:
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+batchfile.CredentialsFilename)
		c.Header("X-Job-ID", result.JobID)
		c.Header("X-Failed-Count", "0")
		c.Status(http.StatusOK)
		if err := batchfile.WriteCredentials(c.Writer, result.Credentials); err != nil {
			h.log.Error().Err(err).Str("job_id", result.JobID).Msg("Failed to write credentials")
		}
	}
}

// respondCredentials sends the per-account failures together with the logins that were created,
// the logins as the CSV text a client saves under credentials_filename
func (h *CoachHandler) respondCredentials(c *gin.Context, status int, result *models.OnboardResult, errMsg string) {
	var buf bytes.Buffer
	if err := batchfile.WriteCredentials(&buf, result.Credentials); err != nil {
		respondError(c, h.log, err, "failed to write credentials")
		return
	}

	body := gin.H{
		"job_id":               result.JobID,
		"outcome":              result.Outcome,
		"created":              len(result.Credentials),
		"failures":             result.Failures,
		"credentials_filename": batchfile.CredentialsFilename,
		"credentials_csv":      buf.String(),
	}
	if errMsg != "" {
		body["error"] = errMsg
	}
	c.Header("X-Job-ID", result.JobID)
	c.Header("X-Failed-Count", strconv.Itoa(len(result.Failures)))
	c.JSON(status, body)
}

func (h *CoachHandler) respondParseError(c *gin.Context, err error) {
	var schemaErr *batchfile.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":              schemaErr.Error(),
			"missing_columns":    schemaErr.Missing,
			"unexpected_columns": schemaErr.Unexpected,
		})
	case errors.Is(err, batchfile.ErrEmptyFile):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// DeleteRequest is the body of POST /v1/coaches/delete
type DeleteRequest struct {
	Emails []string `json:"emails"`
}

// DeleteCoaches handles POST /v1/coaches/delete and returns the refreshed roster
func (h *CoachHandler) DeleteCoaches(c *gin.Context) {
	ctx := c.Request.Context()

	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Emails) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one coach to delete"})
		return
	}

	result, err := h.services.Offboarding.Offboard(ctx, req.Emails)
	if err != nil {
		respondError(c, h.log, err, "failed to delete coaches")
		return
	}

	roster, err := h.services.Roster.Build(ctx)
	if err != nil {
		respondError(c, h.log, err, "coaches deleted but the roster could not be reloaded")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":   result.JobID,
		"deleted":  result.Deleted,
		"failures": result.Failures,
		"roster":   roster,
	})
}
