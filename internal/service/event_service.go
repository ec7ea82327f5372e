package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/rs/zerolog"
)

// eventService is the concrete implementation of EventService
type eventService struct {
	handler EventHandler
	log     zerolog.Logger
}

func newEventService(handler EventHandler, log zerolog.Logger) *eventService {
	return &eventService{
		handler: handler,
		log:     log.With().Str("service", "events").Logger(),
	}
}

// Handle resolves the event name into its kind and dispatches it.
// An event without a request id gets a fresh one, except save events: their
// snapshot must be found again by the matching after-save, so they stay
// keyed by item id alone.
func (s *eventService) Handle(ctx context.Context, ev *models.Event) error {
	kind, err := models.ParseEventKind(ev.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	ev.Kind = kind

	if ev.RequestID == "" && !isSaveEvent(kind) {
		ev.RequestID = uuid.New().String()
	}

	if err := s.handler.HandleEvent(ctx, ev); err != nil {
		s.log.Error().
			Err(err).
			Str("event", ev.Name).
			Str("context", string(ev.Context)).
			Str("request_id", ev.RequestID).
			Int64("item_id", ev.Item.ID).
			Msg("Event handling failed")
		return err
	}
	return nil
}

func isSaveEvent(kind models.EventKind) bool {
	return kind == models.EventBeforeSave || kind == models.EventAfterSave
}
