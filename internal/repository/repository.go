package repository

import (
	"context"

	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/models"
)

// LinkRepository defines the interface for finder link operations
type LinkRepository interface {
	Upsert(ctx context.Context, link *models.Link) (int64, error)
	Delete(ctx context.Context, linkID int64) error
	IDsByURL(ctx context.Context, url string) ([]int64, error)
	IDsByType(ctx context.Context, typeTitle string) ([]int64, error)
	UpdateState(ctx context.Context, url string, state int) error
	UpdateAccess(ctx context.Context, url string, access int) error
	GetVisible(ctx context.Context, ids []int64) ([]*models.Link, error)
	Count(ctx context.Context) (int, error)
}

// MenuRepository defines the interface for menu lookups
type MenuRepository interface {
	TitleByLink(ctx context.Context, link string) (string, error)
}

// ExtensionRepository defines the interface for host extension lookups
type ExtensionRepository interface {
	IsEnabled(ctx context.Context, element string) (bool, error)
	Params(ctx context.Context, element string) (models.Params, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Link      LinkRepository
	Menu      MenuRepository
	Extension ExtensionRepository
}

// New creates all repositories with the given database connection
func New(db database.Querier) *Repositories {
	return &Repositories{
		Link:      NewLinkRepo(db),
		Menu:      NewMenuRepo(db),
		Extension: NewExtensionRepo(db),
	}
}
