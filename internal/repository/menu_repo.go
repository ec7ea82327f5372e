package repository

import (
	"context"
	"database/sql"

	"github.com/jdocmanual-finder/internal/database"
)

// menuRepo is the concrete implementation of MenuRepository
type menuRepo struct {
	db database.Querier
}

// NewMenuRepo creates a new menu repository
func NewMenuRepo(db database.Querier) MenuRepository {
	return &menuRepo{db: db}
}

// TitleByLink returns the title of the published public menu entry
// pointing at link, or "" when there is none
func (r *menuRepo) TitleByLink(ctx context.Context, link string) (string, error) {
	query := `
		SELECT title FROM menu
		WHERE link = $1 AND published = 1 AND access = 1
		ORDER BY id LIMIT 1
	`
	var title string
	err := r.db.QueryRowContext(ctx, query, link).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return title, err
}
