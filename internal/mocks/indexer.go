package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/jdocmanual-finder/internal/finder"
	"github.com/jdocmanual-finder/internal/models"
)

// MockIndexer records every call made to it, in order
type MockIndexer struct {
	mu        sync.Mutex
	Calls     []string
	Indexed   []*models.Result
	Removed   []int64
	URLLinks  map[string][]int64
	TypeLinks map[string][]int64
	States    map[string]int
	Accesses  map[string]int
	IndexErr  error
	RemoveErr error
}

// Verify interface compliance
var _ finder.Indexer = (*MockIndexer)(nil)

func NewMockIndexer() *MockIndexer {
	return &MockIndexer{
		URLLinks:  make(map[string][]int64),
		TypeLinks: make(map[string][]int64),
		States:    make(map[string]int),
		Accesses:  make(map[string]int),
	}
}

func (m *MockIndexer) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockIndexer) Index(ctx context.Context, item *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("index:%d", item.ID)
	if m.IndexErr != nil {
		return m.IndexErr
	}
	m.Indexed = append(m.Indexed, item)
	return nil
}

func (m *MockIndexer) Remove(ctx context.Context, linkID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("remove:%d", linkID)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, linkID)
	return nil
}

func (m *MockIndexer) LinkIDs(ctx context.Context, url string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.URLLinks[url], nil
}

func (m *MockIndexer) LinkIDsByType(ctx context.Context, typeTitle string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TypeLinks[typeTitle], nil
}

func (m *MockIndexer) SetState(ctx context.Context, url string, state int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("set_state:%s:%d", url, state)
	m.States[url] = state
	return nil
}

func (m *MockIndexer) SetAccess(ctx context.Context, url string, access int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("set_access:%s:%d", url, access)
	m.Accesses[url] = access
	return nil
}

// Mutations returns the recorded calls
func (m *MockIndexer) Mutations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}
