package mocks

import (
	"context"
	"time"

	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/service"
)

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	HandleFunc func(ctx context.Context, ev *models.Event) error
	Events     []*models.Event
}

// Verify interface compliance
var _ service.EventService = (*MockEventService)(nil)

func NewMockEventService() *MockEventService {
	return &MockEventService{}
}

func (m *MockEventService) Handle(ctx context.Context, ev *models.Event) error {
	m.Events = append(m.Events, ev)
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, ev)
	}
	return nil
}

// MockIndexService is a mock implementation of IndexService
type MockIndexService struct {
	RunFunc func(ctx context.Context, since *time.Time) (*models.IndexRun, error)
	Runs    []*time.Time
}

// Verify interface compliance
var _ service.IndexService = (*MockIndexService)(nil)

func NewMockIndexService() *MockIndexService {
	return &MockIndexService{}
}

func (m *MockIndexService) Run(ctx context.Context, since *time.Time) (*models.IndexRun, error) {
	m.Runs = append(m.Runs, since)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, since)
	}
	return &models.IndexRun{Since: since}, nil
}

func (m *MockIndexService) StartScheduler(ctx context.Context) error { return nil }

func (m *MockIndexService) StopScheduler() {}

// MockSearchService is a mock implementation of SearchService
type MockSearchService struct {
	Hits    []*models.SearchHit
	Err     error
	Queries []string
	Limits  []int
}

// Verify interface compliance
var _ service.SearchService = (*MockSearchService)(nil)

func NewMockSearchService() *MockSearchService {
	return &MockSearchService{}
}

func (m *MockSearchService) Search(ctx context.Context, q string, limit int) ([]*models.SearchHit, error) {
	m.Queries = append(m.Queries, q)
	m.Limits = append(m.Limits, limit)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Hits, nil
}

// MockIndexBuilder is a mock implementation of IndexBuilder
type MockIndexBuilder struct {
	BuildFunc func(ctx context.Context, since *time.Time, batchSize int) (*models.IndexRun, error)
	Calls     []*time.Time
}

// Verify interface compliance
var _ service.IndexBuilder = (*MockIndexBuilder)(nil)

func (m *MockIndexBuilder) BuildIndex(ctx context.Context, since *time.Time, batchSize int) (*models.IndexRun, error) {
	m.Calls = append(m.Calls, since)
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, since, batchSize)
	}
	return &models.IndexRun{Since: since}, nil
}
