package repository

import (
	"context"
	"time"

	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/lib/pq"
)

// linkRepo is the concrete implementation of LinkRepository
type linkRepo struct {
	db database.Querier
}

// NewLinkRepo creates a new link repository
func NewLinkRepo(db database.Querier) LinkRepository {
	return &linkRepo{db: db}
}

// Upsert inserts a link or refreshes the one with the same URL, keeping its id
func (r *linkRepo) Upsert(ctx context.Context, link *models.Link) (int64, error) {
	query := `
		INSERT INTO finder_links (url, route, title, description, type_title, language, state, access, taxonomies, robots, indexdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO UPDATE SET
			route = EXCLUDED.route, title = EXCLUDED.title, description = EXCLUDED.description,
			type_title = EXCLUDED.type_title, language = EXCLUDED.language, state = EXCLUDED.state,
			access = EXCLUDED.access, taxonomies = EXCLUDED.taxonomies, robots = EXCLUDED.robots,
			indexdate = EXCLUDED.indexdate
		RETURNING link_id
	`
	taxonomies := make([]string, 0, len(link.Taxonomies))
	for _, t := range link.Taxonomies {
		taxonomies = append(taxonomies, t.String())
	}

	indexDate := link.IndexDate
	if indexDate.IsZero() {
		indexDate = time.Now()
	}

	var linkID int64
	err := r.db.QueryRowContext(ctx, query,
		link.URL, link.Route, link.Title, link.Description, link.TypeTitle,
		link.Language, link.State, link.Access, pq.Array(taxonomies), link.Robots, indexDate,
	).Scan(&linkID)
	if err != nil {
		return 0, err
	}
	link.LinkID = linkID
	return linkID, nil
}

// Delete removes a link
func (r *linkRepo) Delete(ctx context.Context, linkID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM finder_links WHERE link_id = $1", linkID)
	return err
}

// IDsByURL returns the ids of links with the given URL
func (r *linkRepo) IDsByURL(ctx context.Context, url string) ([]int64, error) {
	return r.ids(ctx, "SELECT link_id FROM finder_links WHERE url = $1", url)
}

// IDsByType returns the ids of every link of a content type
func (r *linkRepo) IDsByType(ctx context.Context, typeTitle string) ([]int64, error) {
	return r.ids(ctx, "SELECT link_id FROM finder_links WHERE type_title = $1 ORDER BY link_id", typeTitle)
}

func (r *linkRepo) ids(ctx context.Context, query string, arg any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateState sets the state of the links with the given URL
func (r *linkRepo) UpdateState(ctx context.Context, url string, state int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE finder_links SET state = $1 WHERE url = $2", state, url)
	return err
}

// UpdateAccess sets the access level of the links with the given URL
func (r *linkRepo) UpdateAccess(ctx context.Context, url string, access int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE finder_links SET access = $1 WHERE url = $2", access, url)
	return err
}

// GetVisible loads the published, public links among ids
func (r *linkRepo) GetVisible(ctx context.Context, ids []int64) ([]*models.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT link_id, url, route, title, description, type_title, language, state, access, taxonomies, robots, indexdate
		FROM finder_links
		WHERE link_id = ANY($1) AND state = 1 AND access = 1
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		var link models.Link
		var taxonomies pq.StringArray

		err := rows.Scan(
			&link.LinkID, &link.URL, &link.Route, &link.Title, &link.Description,
			&link.TypeTitle, &link.Language, &link.State, &link.Access, &taxonomies, &link.Robots, &link.IndexDate,
		)
		if err != nil {
			return nil, err
		}
		for _, t := range taxonomies {
			link.Taxonomies = append(link.Taxonomies, models.ParseTaxonomy(t))
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

// Count returns the total number of links
func (r *linkRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM finder_links").Scan(&count)
	return count, err
}
