package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jdocmanual-finder/internal/config"
	"github.com/jdocmanual-finder/internal/metrics"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// indexService is the concrete implementation of IndexService
type indexService struct {
	builder   IndexBuilder
	batchSize int
	schedule  string
	log       zerolog.Logger

	running sync.Mutex

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun *time.Time
	now     func() time.Time
}

func newIndexService(builder IndexBuilder, cfg config.IndexConfig, log zerolog.Logger) *indexService {
	return &indexService{
		builder:   builder,
		batchSize: cfg.BatchSize,
		schedule:  cfg.Schedule,
		log:       log.With().Str("service", "index").Logger(),
		now:       time.Now,
	}
}

// Run indexes every item, or only those changed since the given time.
// Only one run executes at a time.
func (s *indexService) Run(ctx context.Context, since *time.Time) (*models.IndexRun, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	mode := "full"
	if since != nil {
		mode = "incremental"
	}

	s.log.Info().Str("mode", mode).Int("batch_size", s.batchSize).Msg("Starting index run")

	start := s.now()
	run, err := s.builder.BuildIndex(ctx, since, s.batchSize)
	metrics.IndexRunDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s index run failed: %w", mode, err)
	}
	return run, nil
}

// StartScheduler runs incremental index passes on the configured cron
// schedule. The first pass is a full one. An empty schedule disables it.
func (s *indexService) StartScheduler(ctx context.Context) error {
	if s.schedule == "" {
		s.log.Info().Msg("Index schedule not configured")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.schedule, func() { s.scheduledRun(ctx) }); err != nil {
		return fmt.Errorf("invalid index schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c
	s.log.Info().Str("schedule", s.schedule).Msg("Index scheduler started")
	return nil
}

// StopScheduler stops the scheduler and waits for a running pass to finish
func (s *indexService) StopScheduler() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info().Msg("Index scheduler stopped")
}

func (s *indexService) scheduledRun(ctx context.Context) {
	s.mu.Lock()
	since := s.lastRun
	s.mu.Unlock()

	start := s.now()
	run, err := s.Run(ctx, since)
	if err != nil {
		s.log.Error().Err(err).Msg("Scheduled index run failed")
		return
	}

	s.mu.Lock()
	s.lastRun = &start
	s.mu.Unlock()

	s.log.Info().
		Int("indexed", run.Indexed).
		Int("failed", run.Failed).
		Msg("Scheduled index run completed")
}
