package finder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/rs/zerolog"
)

// Adapter resolves the requests a content adapter makes (reindex this id,
// remove that id, change state or access) into queries against the source
// tables and calls on the Indexer.
type Adapter struct {
	src     Indexable
	db      database.Querier
	indexer Indexer
	log     zerolog.Logger
}

// NewAdapter creates an Adapter for the given content source
func NewAdapter(src Indexable, db database.Querier, indexer Indexer, log zerolog.Logger) *Adapter {
	return &Adapter{
		src:     src,
		db:      db,
		indexer: indexer,
		log:     log.With().Str("component", "finder").Str("type", src.TypeTitle()).Logger(),
	}
}

// GetURL builds the canonical URL identifying an item across indexing passes
func GetURL(id int64, extension, view string) string {
	return "index.php?option=" + extension + "&view=" + view + "&id=" + strconv.FormatInt(id, 10)
}

// TranslateState maps a content state onto the indexed state: published (1)
// and archived (2) are visible, anything else is hidden. An unpublished
// category hides the item regardless of its own state.
func TranslateState(item int, category *int) int {
	if category != nil && *category == 0 {
		item = 0
	}
	switch item {
	case 1, 2:
		return 1
	default:
		return 0
	}
}

// URL returns the canonical URL of the item with the given id
func (a *Adapter) URL(id int64) string {
	return GetURL(id, a.src.Extension(), a.src.Layout())
}

// GetItem loads a single item through the list query
func (a *Adapter) GetItem(ctx context.Context, id int64) (*models.Result, error) {
	query, args := a.src.ListQuery().Where("a.id = ?", id).SQL()

	item, err := a.src.ToResult(a.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}

	a.decorate(item)
	return item, nil
}

// GetItems loads a page of items. extra narrows the list query and may be nil.
func (a *Adapter) GetItems(ctx context.Context, offset, limit int, extra *Query) ([]*models.Result, error) {
	query, args := a.src.ListQuery().Merge(extra).OrderBy("a.id").Limit(limit, offset).SQL()

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Result
	for rows.Next() {
		item, err := a.src.ToResult(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		a.decorate(item)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Count returns the number of rows the list query (narrowed by extra) yields
func (a *Adapter) Count(ctx context.Context, extra *Query) (int, error) {
	query, args := a.src.ListQuery().Merge(extra).CountQuery().SQL()

	var count int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// BuildIndex indexes every item, or only those changed since the given time,
// in batches of batchSize. Items failing to index are counted and skipped;
// query errors abort the run.
func (a *Adapter) BuildIndex(ctx context.Context, since *time.Time, batchSize int) (*models.IndexRun, error) {
	start := time.Now()
	run := &models.IndexRun{Since: since}

	var extra *Query
	if since != nil {
		extra = a.src.UpdateQueryByTime(*since)
	}

	total, err := a.Count(ctx, extra)
	if err != nil {
		return nil, err
	}
	run.Total = total

	for offset := 0; offset < total; offset += batchSize {
		items, err := a.GetItems(ctx, offset, batchSize, extra)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if err := a.src.Index(ctx, item); err != nil {
				run.Failed++
				a.log.Error().Err(err).Int64("id", item.ID).Msg("Failed to index item")
				continue
			}
			run.Indexed++
		}
	}

	run.DurationMs = time.Since(start).Milliseconds()
	a.log.Info().
		Int("total", run.Total).
		Int("indexed", run.Indexed).
		Int("failed", run.Failed).
		Int64("duration_ms", run.DurationMs).
		Msg("Index run completed")

	return run, nil
}

// Reindex loads the item again and indexes it. An item that disappeared
// from the source is removed from the index instead.
func (a *Adapter) Reindex(ctx context.Context, id int64) error {
	item, err := a.GetItem(ctx, id)
	if errors.Is(err, ErrItemNotFound) {
		a.log.Debug().Int64("id", id).Msg("Item gone, removing from index")
		return a.Remove(ctx, id)
	}
	if err != nil {
		return err
	}
	return a.src.Index(ctx, item)
}

// Remove deletes every link whose URL matches the item with the given id
func (a *Adapter) Remove(ctx context.Context, id int64) error {
	url := a.URL(id)

	linkIDs, err := a.indexer.LinkIDs(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to look up links for %s: %w", url, err)
	}
	for _, linkID := range linkIDs {
		if err := a.indexer.Remove(ctx, linkID); err != nil {
			return fmt.Errorf("failed to remove link %d: %w", linkID, err)
		}
	}
	return nil
}

// RemoveLink deletes a single link by its id
func (a *Adapter) RemoveLink(ctx context.Context, linkID int64) error {
	if err := a.indexer.Remove(ctx, linkID); err != nil {
		return fmt.Errorf("failed to remove link %d: %w", linkID, err)
	}
	return nil
}

// RemoveAll deletes every link created by this content type
func (a *Adapter) RemoveAll(ctx context.Context) error {
	linkIDs, err := a.indexer.LinkIDsByType(ctx, a.src.TypeTitle())
	if err != nil {
		return fmt.Errorf("failed to look up links of type %s: %w", a.src.TypeTitle(), err)
	}
	for _, linkID := range linkIDs {
		if err := a.indexer.Remove(ctx, linkID); err != nil {
			return fmt.Errorf("failed to remove link %d: %w", linkID, err)
		}
	}
	a.log.Info().Int("removed", len(linkIDs)).Msg("Removed all links")
	return nil
}

// ItemStateChange applies the new state to each item and reindexes it.
// Every key is attempted; failures are joined into the returned error.
func (a *Adapter) ItemStateChange(ctx context.Context, pks []int64, value int) error {
	var errs []error
	for _, pk := range pks {
		if err := a.itemStateChange(ctx, pk, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) itemStateChange(ctx context.Context, pk int64, value int) error {
	record, err := a.StateRecord(ctx, pk)
	if err != nil {
		return err
	}

	state := TranslateState(value, record.CatState)
	if err := a.indexer.SetState(ctx, a.URL(pk), state); err != nil {
		return fmt.Errorf("failed to set state of item %d: %w", pk, err)
	}
	return a.Reindex(ctx, pk)
}

// ItemAccessChange copies the item's current access level onto its link
func (a *Adapter) ItemAccessChange(ctx context.Context, id int64) error {
	record, err := a.StateRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := a.indexer.SetAccess(ctx, a.URL(id), record.Access); err != nil {
		return fmt.Errorf("failed to set access of item %d: %w", id, err)
	}
	return nil
}

// CheckItemAccess returns the access level currently persisted for the item
func (a *Adapter) CheckItemAccess(ctx context.Context, id int64) (int, error) {
	query, args := Select("access").From(a.src.Table()).Where("id = ?", id).SQL()

	var access int
	err := a.db.QueryRowContext(ctx, query, args...).Scan(&access)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read access of item %d: %w", id, err)
	}
	return access, nil
}

// StateRecord loads the state snapshot of one item
func (a *Adapter) StateRecord(ctx context.Context, id int64) (*models.StateRecord, error) {
	query, args := a.src.StateQuery().Where("a.id = ?", id).SQL()

	var record models.StateRecord
	var catState, catAccess sql.NullInt64
	err := a.db.QueryRowContext(ctx, query, args...).Scan(
		&record.ID, &record.State, &record.Access, &catState, &catAccess,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("state of item %d: %w", id, ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state of item %d: %w", id, err)
	}

	if catState.Valid {
		v := int(catState.Int64)
		record.CatState = &v
	}
	if catAccess.Valid {
		v := int(catAccess.Int64)
		record.CatAccess = &v
	}
	return &record, nil
}

func (a *Adapter) decorate(item *models.Result) {
	item.TypeTitle = a.src.TypeTitle()
	item.Layout = a.src.Layout()
}
