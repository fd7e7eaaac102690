package api

import (
	"net/http"

	"github.com/coach-video-admin/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// VideoHandler handles catalog, assignment and ingestion endpoints
type VideoHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(services *service.Services, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		services: services,
		log:      log.With().Str("handler", "video").Logger(),
	}
}

// GetCatalog handles GET /v1/videos/catalog
func (h *VideoHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.services.Catalog.Build(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load videos")
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// GetDistribution handles GET /v1/videos/distribution
func (h *VideoHandler) GetDistribution(c *gin.Context) {
	loads, err := h.services.Catalog.Distribution(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load distribution")
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": loads})
}

// AssignRequest is the body of PUT /v1/videos/coaches
type AssignRequest struct {
	Videos  []string `json:"videos"`
	Coaches []string `json:"coaches"`
}

// AssignCoaches handles PUT /v1/videos/coaches
func (h *VideoHandler) AssignCoaches(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Videos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one video"})
		return
	}
	if len(req.Coaches) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one coach"})
		return
	}

	result, err := h.services.Assignment.Assign(c.Request.Context(), req.Videos, req.Coaches)
	if err != nil {
		respondError(c, h.log, err, "failed to update videos")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResetCoaches handles POST /v1/videos/reset
func (h *VideoHandler) ResetCoaches(c *gin.Context) {
	result, err := h.services.Assignment.ResetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to reset videos")
		return
	}
	c.JSON(http.StatusOK, result)
}

// IngestBucket handles POST /v1/videos/ingest
func (h *VideoHandler) IngestBucket(c *gin.Context) {
	report, err := h.services.Ingestion.Ingest(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to ingest videos")
		return
	}
	c.JSON(http.StatusOK, report)
}
