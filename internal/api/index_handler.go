package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdocmanual-finder/internal/service"
	"github.com/rs/zerolog"
)

const maxSearchLimit = 100

// IndexHandler handles index runs and search
type IndexHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewIndexHandler creates a new IndexHandler
func NewIndexHandler(services *service.Services, log zerolog.Logger) *IndexHandler {
	return &IndexHandler{
		services: services,
		log:      log.With().Str("handler", "index").Logger(),
	}
}

// RunIndex handles POST /v1/index?since=<RFC3339>
// Without since every item is indexed.
func (h *IndexHandler) RunIndex(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC3339 timestamp"})
			return
		}
		since = &t
	}

	run, err := h.services.Index.Run(c.Request.Context(), since)
	if errors.Is(err, service.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Index run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// Search handles GET /v1/search?q=...&limit=...
func (h *IndexHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	hits, err := h.services.Search.Search(c.Request.Context(), q, limit)
	if err != nil {
		h.log.Error().Err(err).Str("q", q).Msg("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"count":   len(hits),
		"results": hits,
	})
}
