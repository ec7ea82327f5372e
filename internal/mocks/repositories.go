package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/repository"
)

// MockLinkRepository is an in-memory implementation of LinkRepository
type MockLinkRepository struct {
	mu          sync.Mutex
	Links       map[int64]*models.Link
	NextID      int64
	UpsertError error
}

// Verify interface compliance
var _ repository.LinkRepository = (*MockLinkRepository)(nil)

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		Links:  make(map[int64]*models.Link),
		NextID: 1,
	}
}

func (m *MockLinkRepository) Upsert(ctx context.Context, link *models.Link) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertError != nil {
		return 0, m.UpsertError
	}
	for id, existing := range m.Links {
		if existing.URL == link.URL {
			stored := *link
			stored.LinkID = id
			m.Links[id] = &stored
			link.LinkID = id
			return id, nil
		}
	}
	id := m.NextID
	m.NextID++
	stored := *link
	stored.LinkID = id
	m.Links[id] = &stored
	link.LinkID = id
	return id, nil
}

func (m *MockLinkRepository) Delete(ctx context.Context, linkID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Links, linkID)
	return nil
}

func (m *MockLinkRepository) IDsByURL(ctx context.Context, url string) ([]int64, error) {
	return m.filter(func(l *models.Link) bool { return l.URL == url }), nil
}

func (m *MockLinkRepository) IDsByType(ctx context.Context, typeTitle string) ([]int64, error) {
	return m.filter(func(l *models.Link) bool { return l.TypeTitle == typeTitle }), nil
}

func (m *MockLinkRepository) UpdateState(ctx context.Context, url string, state int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Links {
		if l.URL == url {
			l.State = state
		}
	}
	return nil
}

func (m *MockLinkRepository) UpdateAccess(ctx context.Context, url string, access int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Links {
		if l.URL == url {
			l.Access = access
		}
	}
	return nil
}

func (m *MockLinkRepository) GetVisible(ctx context.Context, ids []int64) ([]*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var links []*models.Link
	for _, id := range ids {
		if l, ok := m.Links[id]; ok && l.State == 1 && l.Access == 1 {
			links = append(links, l)
		}
	}
	return links, nil
}

func (m *MockLinkRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Links), nil
}

// ByURL returns the stored link for url, or nil
func (m *MockLinkRepository) ByURL(url string) *models.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Links {
		if l.URL == url {
			return l
		}
	}
	return nil
}

func (m *MockLinkRepository) filter(keep func(*models.Link) bool) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for id, l := range m.Links {
		if keep(l) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MockMenuRepository is a mock implementation of MenuRepository
type MockMenuRepository struct {
	Titles map[string]string
	Err    error
}

// Verify interface compliance
var _ repository.MenuRepository = (*MockMenuRepository)(nil)

func NewMockMenuRepository() *MockMenuRepository {
	return &MockMenuRepository{Titles: make(map[string]string)}
}

func (m *MockMenuRepository) TitleByLink(ctx context.Context, link string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Titles[link], nil
}

// MockExtensionRepository is a mock implementation of ExtensionRepository
type MockExtensionRepository struct {
	Enabled        map[string]bool
	ComponentParam map[string]models.Params
	Err            error
}

// Verify interface compliance
var _ repository.ExtensionRepository = (*MockExtensionRepository)(nil)

func NewMockExtensionRepository() *MockExtensionRepository {
	return &MockExtensionRepository{
		Enabled:        map[string]bool{"com_jdocmanual": true},
		ComponentParam: make(map[string]models.Params),
	}
}

func (m *MockExtensionRepository) IsEnabled(ctx context.Context, element string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return m.Enabled[element], nil
}

func (m *MockExtensionRepository) Params(ctx context.Context, element string) (models.Params, error) {
	if m.Err != nil {
		return models.Params{}, m.Err
	}
	return m.ComponentParam[element], nil
}
