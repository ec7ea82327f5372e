package service

import (
	"context"
	"errors"
	"time"

	"github.com/jdocmanual-finder/internal/config"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidEvent is returned for events that cannot be dispatched
	ErrInvalidEvent = errors.New("invalid event")

	// ErrRunInProgress is returned when an index run is already executing
	ErrRunInProgress = errors.New("index run already in progress")
)

// EventService defines the interface for lifecycle event handling
type EventService interface {
	Handle(ctx context.Context, ev *models.Event) error
}

// IndexService defines the interface for full and incremental index runs
type IndexService interface {
	Run(ctx context.Context, since *time.Time) (*models.IndexRun, error)
	StartScheduler(ctx context.Context) error
	StopScheduler()
}

// SearchService defines the interface for searching the index
type SearchService interface {
	Search(ctx context.Context, q string, limit int) ([]*models.SearchHit, error)
}

// EventHandler is what the event service dispatches to
type EventHandler interface {
	HandleEvent(ctx context.Context, ev *models.Event) error
}

// IndexBuilder runs one pass over the source rows
type IndexBuilder interface {
	BuildIndex(ctx context.Context, since *time.Time, batchSize int) (*models.IndexRun, error)
}

// Services holds all service interfaces
type Services struct {
	Events EventService
	Index  IndexService
	Search SearchService
}

// NewServices creates all services
func NewServices(handler EventHandler, builder IndexBuilder, search SearchService, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Events: newEventService(handler, log),
		Index:  newIndexService(builder, cfg.Index, log),
		Search: search,
	}
}
