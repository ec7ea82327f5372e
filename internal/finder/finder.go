// Package finder holds the generic machinery shared by content adapters:
// the contracts towards the index backend, the query builder, and the
// Adapter runner that resolves reindex/remove/state/access requests.
package finder

import (
	"context"
	"errors"
	"time"

	"github.com/jdocmanual-finder/internal/models"
)

// ErrItemNotFound is returned when a source row no longer exists
var ErrItemNotFound = errors.New("item not found")

// Indexer is the index backend. The adapter only calls it; tokenizing,
// storage and ranking all live behind this interface.
type Indexer interface {
	Index(ctx context.Context, item *models.Result) error
	Remove(ctx context.Context, linkID int64) error
	LinkIDs(ctx context.Context, url string) ([]int64, error)
	LinkIDsByType(ctx context.Context, typeTitle string) ([]int64, error)
	SetState(ctx context.Context, url string, state int) error
	SetAccess(ctx context.Context, url string, access int) error
}

// Indexable is implemented by a content adapter. It describes how to
// enumerate its rows and how to turn one row into an indexable item.
type Indexable interface {
	TypeTitle() string
	Extension() string
	Layout() string
	Table() string

	// ListQuery selects every indexable row
	ListQuery() *Query
	// StateQuery selects id, state, access, cat_state, cat_access
	StateQuery() *Query
	// UpdateQueryByTime holds the conditions restricting ListQuery to rows changed since t
	UpdateQueryByTime(t time.Time) *Query
	// ToResult maps one ListQuery row onto a Result
	ToResult(scan func(dest ...any) error) (*models.Result, error)

	// Index prepares a freshly loaded item and hands it to the Indexer
	Index(ctx context.Context, item *models.Result) error
}

// ContentExtras enriches an item right before it is indexed
type ContentExtras interface {
	Prepare(ctx context.Context, item *models.Result) error
}

// ContentExtrasFunc adapts a function to ContentExtras
type ContentExtrasFunc func(ctx context.Context, item *models.Result) error

// Prepare calls f
func (f ContentExtrasFunc) Prepare(ctx context.Context, item *models.Result) error {
	return f(ctx, item)
}
