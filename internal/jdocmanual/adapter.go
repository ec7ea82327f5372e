// Package jdocmanual indexes Jdocmanual manual articles. It maps the
// jdm_articles/jdm_languages/jdm_manuals schema onto indexable items and
// reacts to the content lifecycle events of the com_jdocmanual component.
package jdocmanual

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/finder"
	"github.com/jdocmanual-finder/internal/metrics"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/snapshot"
	"github.com/rs/zerolog"
)

const (
	typeTitle  = "Jdocmanual"
	extension  = "com_jdocmanual"
	layout     = "jdocmanual"
	table      = "jdm_articles"
	stateField = "state"
)

// ExtensionStore reports on installed host extensions
type ExtensionStore interface {
	IsEnabled(ctx context.Context, element string) (bool, error)
	Params(ctx context.Context, element string) (models.Params, error)
}

// MenuStore resolves menu entries by link
type MenuStore interface {
	TitleByLink(ctx context.Context, link string) (string, error)
}

// Options are the finder plugin parameters
type Options struct {
	UseMenuTitle bool
	Taxonomies   []string
}

// Adapter is the Jdocmanual content adapter
type Adapter struct {
	finder     *finder.Adapter
	indexer    finder.Indexer
	extensions ExtensionStore
	menus      MenuStore
	snapshots  snapshot.Store
	extras     []finder.ContentExtras
	opts       Options
	handlers   map[models.EventKind]handlerFunc
	log        zerolog.Logger
}

var _ finder.Indexable = (*Adapter)(nil)

// New creates the adapter. extras run in order before every item is indexed.
func New(
	db database.Querier,
	indexer finder.Indexer,
	extensions ExtensionStore,
	menus MenuStore,
	snapshots snapshot.Store,
	opts Options,
	log zerolog.Logger,
	extras ...finder.ContentExtras,
) *Adapter {
	a := &Adapter{
		indexer:    indexer,
		extensions: extensions,
		menus:      menus,
		snapshots:  snapshots,
		extras:     extras,
		opts:       opts,
		log:        log.With().Str("component", "jdocmanual").Logger(),
	}
	a.finder = finder.NewAdapter(a, db, indexer, log)
	a.handlers = map[models.EventKind]handlerFunc{
		models.EventAfterDelete: a.onAfterDelete,
		models.EventBeforeSave:  a.onBeforeSave,
		models.EventAfterSave:   a.onAfterSave,
		models.EventChangeState: a.onChangeState,
	}
	return a
}

// Finder exposes the generic runner bound to this adapter
func (a *Adapter) Finder() *finder.Adapter { return a.finder }

func (a *Adapter) TypeTitle() string { return typeTitle }
func (a *Adapter) Extension() string { return extension }
func (a *Adapter) Layout() string    { return layout }
func (a *Adapter) Table() string     { return table }

// ListQuery selects the indexable article rows. The schema has no access
// control, so access is the constant 1 (public).
func (a *Adapter) ListQuery() *finder.Query {
	return finder.Select(
		"a.id",
		"a.display_title AS title",
		"a.html AS body",
		"a.state",
		"b.locale AS language",
		"a.manual",
		"a.heading",
		"1 AS access",
		"a.filename",
		"c.title AS mantitle",
	).
		From(table + " AS a").
		LeftJoin("jdm_languages AS b ON a.language = b.code").
		LeftJoin("jdm_manuals AS c ON a.manual = c.manual")
}

// StateQuery selects the published and access states. There is no
// category hierarchy, so the category columns are always NULL.
func (a *Adapter) StateQuery() *finder.Query {
	return finder.Select(
		"a.id",
		"a."+stateField+" AS state",
		"a.access",
		"NULL AS cat_state",
		"NULL AS cat_access",
	).From(table + " AS a")
}

// UpdateQueryByTime restricts the list query to articles dated t or later
func (a *Adapter) UpdateQueryByTime(t time.Time) *finder.Query {
	return finder.Select().Where("a.date >= ?", t)
}

// IncrementalQuery is the list query restricted to articles dated since or later
func (a *Adapter) IncrementalQuery(since time.Time) *finder.Query {
	return a.ListQuery().Merge(a.UpdateQueryByTime(since))
}

// ToResult maps one list query row onto a Result
func (a *Adapter) ToResult(scan func(dest ...any) error) (*models.Result, error) {
	var item models.Result
	var language, manualTitle sql.NullString

	err := scan(
		&item.ID, &item.Title, &item.Body, &item.State, &language,
		&item.Manual, &item.Heading, &item.Access, &item.Filename, &manualTitle,
	)
	if err != nil {
		return nil, err
	}

	item.Language = language.String
	item.ManualTitle = manualTitle.String
	item.Filename = stripExtension(item.Filename)
	return &item, nil
}

// Index prepares an item and hands it to the indexer. Nothing happens
// while the component is disabled.
func (a *Adapter) Index(ctx context.Context, item *models.Result) error {
	enabled, err := a.extensions.IsEnabled(ctx, extension)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", extension, err)
	}
	if !enabled {
		a.log.Debug().Int64("id", item.ID).Msg("Component disabled, skipping item")
		return nil
	}

	component, err := a.extensions.Params(ctx, extension)
	if err != nil {
		return fmt.Errorf("failed to load %s params: %w", extension, err)
	}

	item.SetLanguage()
	item.Params = component.Merge(item.Params)
	if item.Metadata == nil {
		item.Metadata = models.Metadata{}
	}

	item.URL = finder.GetURL(item.ID, extension, layout)
	item.Route = Route(item.Params.Subfolder(), item.Manual, item.Heading, item.Filename)

	title, err := a.menus.TitleByLink(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("failed to look up menu title: %w", err)
	}
	if title != "" && a.opts.UseMenuTitle {
		item.Title = title
	}

	item.MetaAuthor = item.Metadata.Get("author")

	for _, field := range []string{"link", "metakey", "metadesc", "metaauthor", "author", "created_by_alias"} {
		item.AddInstruction(models.MetaContext, field)
	}

	a.addTaxonomies(item)

	for _, extra := range a.extras {
		if err := extra.Prepare(ctx, item); err != nil {
			return fmt.Errorf("failed to prepare item %d: %w", item.ID, err)
		}
	}

	err = a.indexer.Index(ctx, item)
	metrics.ObserveOperation("index", err)
	return err
}

func (a *Adapter) addTaxonomies(item *models.Result) {
	if a.taxonomyEnabled("type") {
		item.AddTaxonomy("Type", typeTitle)
	}
	if a.taxonomyEnabled("manual") && item.Manual != "" && item.ManualTitle != "" {
		item.AddTaxonomy("Manual", item.ManualTitle)
	}
	if a.taxonomyEnabled("language") {
		item.AddTaxonomy("Language", item.Language)
	}
}

func (a *Adapter) taxonomyEnabled(name string) bool {
	for _, t := range a.opts.Taxonomies {
		if t == name {
			return true
		}
	}
	return false
}

// Route builds the human readable path of an article
func Route(subfolder, manual, heading, filename string) string {
	return subfolder + "/jdocmanual?article=" + manual + "/" + heading + "/" + filename
}

// stripExtension drops the file extension ("intro.md" -> "intro")
func stripExtension(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}
