// Package index is the search index backend. Link records (state, access,
// taxonomies, route) live in postgres; the searchable text lives in bleve.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/jdocmanual-finder/internal/finder"
	"github.com/jdocmanual-finder/internal/metrics"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/repository"
	"github.com/rs/zerolog"
)

const descriptionLimit = 255

// Engine implements finder.Indexer
type Engine struct {
	mu    sync.RWMutex
	links repository.LinkRepository
	index bleve.Index
	log   zerolog.Logger
}

var _ finder.Indexer = (*Engine)(nil)

// document is what bleve sees of an indexed item
type document struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Meta     string   `json:"meta"`
	Language string   `json:"language"`
	Taxonomy []string `json:"taxonomy"`
}

// Open opens the bleve index at path, creating it if needed.
// An empty path creates an in-memory index.
func Open(path string, links repository.LinkRepository, log zerolog.Logger) (*Engine, error) {
	indexMapping := newMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create/open index: %w", err)
	}

	return &Engine{
		links: links,
		index: idx,
		log:   log.With().Str("component", "index").Logger(),
	}, nil
}

func newMapping() *mapping.IndexMappingImpl {
	keyword := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("language", keyword)
	doc.AddFieldMappingsAt("taxonomy", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Index stores the link record and the searchable text of item
func (e *Engine) Index(ctx context.Context, item *models.Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	link := &models.Link{
		URL:         item.URL,
		Route:       item.Route,
		Title:       item.Title,
		Description: truncate(item.Description, descriptionLimit),
		TypeTitle:   item.TypeTitle,
		Language:    item.Language,
		State:       finder.TranslateState(item.State, item.CatState),
		Access:      item.Access,
		Taxonomies:  item.Taxonomies,
		Robots:      item.Params.RobotsValue(),
	}

	linkID, err := e.links.Upsert(ctx, link)
	if err != nil {
		return fmt.Errorf("failed to store link %s: %w", item.URL, err)
	}

	body := item.Text
	if body == "" {
		body = item.Body
	}
	taxonomies := make([]string, 0, len(item.Taxonomies))
	for _, t := range item.Taxonomies {
		taxonomies = append(taxonomies, t.String())
	}

	doc := document{
		Title:    item.Title,
		Body:     body,
		Meta:     metaText(item),
		Language: item.Language,
		Taxonomy: taxonomies,
	}
	if err := e.index.Index(docID(linkID), doc); err != nil {
		// A link without a document can never be found; drop it until the next reindex
		if delErr := e.links.Delete(ctx, linkID); delErr != nil {
			e.log.Error().Err(delErr).Int64("link_id", linkID).Msg("Failed to drop link without document")
		}
		return fmt.Errorf("failed to index link %d: %w", linkID, err)
	}

	e.log.Debug().Int64("link_id", linkID).Str("url", item.URL).Msg("Item indexed")
	return nil
}

// Remove deletes a link and its document
func (e *Engine) Remove(ctx context.Context, linkID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.links.Delete(ctx, linkID)
	metrics.ObserveOperation("remove", err)
	if err != nil {
		return fmt.Errorf("failed to delete link %d: %w", linkID, err)
	}
	if err := e.index.Delete(docID(linkID)); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", linkID, err)
	}
	return nil
}

// LinkIDs returns the links recorded for a URL
func (e *Engine) LinkIDs(ctx context.Context, url string) ([]int64, error) {
	return e.links.IDsByURL(ctx, url)
}

// LinkIDsByType returns every link of a content type
func (e *Engine) LinkIDsByType(ctx context.Context, typeTitle string) ([]int64, error) {
	return e.links.IDsByType(ctx, typeTitle)
}

// SetState changes the indexed state of the links for a URL
func (e *Engine) SetState(ctx context.Context, url string, state int) error {
	err := e.links.UpdateState(ctx, url, state)
	metrics.ObserveOperation("set_state", err)
	return err
}

// SetAccess changes the access level of the links for a URL
func (e *Engine) SetAccess(ctx context.Context, url string, access int) error {
	err := e.links.UpdateAccess(ctx, url, access)
	metrics.ObserveOperation("set_access", err)
	return err
}

// Search matches q against the indexed text and returns visible links in
// score order. Hidden links are filtered after each bleve page, so pages are
// fetched until limit visible hits are found or the matches run out.
func (e *Engine) Search(ctx context.Context, q string, limit int) ([]*models.SearchHit, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 20
	}

	query := bleve.NewMatchQuery(q)
	pageSize := limit * 3
	hits := make([]*models.SearchHit, 0, limit)

	for from := 0; len(hits) < limit; from += pageSize {
		e.mu.RLock()
		req := bleve.NewSearchRequestOptions(query, pageSize, from, false)
		res, err := e.index.SearchInContext(ctx, req)
		e.mu.RUnlock()
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		page, err := e.visible(ctx, res.Hits)
		if err != nil {
			return nil, err
		}
		for _, hit := range page {
			hits = append(hits, hit)
			if len(hits) == limit {
				break
			}
		}

		if len(res.Hits) < pageSize || uint64(from+pageSize) >= res.Total {
			break
		}
	}
	return hits, nil
}

// visible resolves one page of bleve hits into the visible links among them,
// keeping score order
func (e *Engine) visible(ctx context.Context, matches search.DocumentMatchCollection) ([]*models.SearchHit, error) {
	scores := make(map[int64]float64, len(matches))
	ids := make([]int64, 0, len(matches))
	for _, hit := range matches {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		scores[id] = hit.Score
		ids = append(ids, id)
	}

	links, err := e.links.GetVisible(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	byID := make(map[int64]*models.Link, len(links))
	for _, l := range links {
		byID[l.LinkID] = l
	}

	hits := make([]*models.SearchHit, 0, len(links))
	for _, id := range ids {
		if link, ok := byID[id]; ok {
			hits = append(hits, &models.SearchHit{Link: *link, Score: scores[id]})
		}
	}
	return hits, nil
}

// DocCount returns the number of documents in the text index
func (e *Engine) DocCount() (uint64, error) {
	return e.index.DocCount()
}

// Close closes the text index
func (e *Engine) Close() error {
	return e.index.Close()
}

// metaText collects the values of the fields declared searchable under the
// metadata instruction group
func metaText(item *models.Result) string {
	var parts []string
	for _, field := range item.Instructions[models.MetaContext] {
		var v string
		switch field {
		case "link":
			v = item.URL
		case "metakey":
			v = item.Metadata.Get("keywords")
		case "metadesc":
			v = item.Metadata.Get("description")
		case "metaauthor":
			v = item.MetaAuthor
		default:
			v = item.Metadata.Get(field)
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func docID(linkID int64) string {
	return strconv.FormatInt(linkID, 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
