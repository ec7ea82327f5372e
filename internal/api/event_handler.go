package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/service"
	"github.com/rs/zerolog"
)

// requestIDHeader carries the host request id that ties a before-save
// event to its after-save event
const requestIDHeader = "X-Request-ID"

// EventHandler handles lifecycle event delivery
type EventHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(services *service.Services, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		services: services,
		log:      log.With().Str("handler", "events").Logger(),
	}
}

// HandleEvent handles POST /v1/events
func (h *EventHandler) HandleEvent(c *gin.Context) {
	var ev models.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event body: " + err.Error()})
		return
	}
	if ev.RequestID == "" {
		ev.RequestID = c.GetHeader(requestIDHeader)
	}

	if err := h.services.Events.Handle(c.Request.Context(), &ev); err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"event":      ev.Name,
		"request_id": ev.RequestID,
	})
}
