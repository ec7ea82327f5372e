package jdocmanual

import (
	"context"
	"errors"
	"fmt"

	"github.com/jdocmanual-finder/internal/finder"
	"github.com/jdocmanual-finder/internal/metrics"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/snapshot"
)

// handlerFunc handles one event kind and reports whether it acted on it
type handlerFunc func(ctx context.Context, ev *models.Event) (bool, error)

// ErrUnknownEvent is returned for event kinds without a handler
var ErrUnknownEvent = errors.New("unknown event")

// HandleEvent dispatches ev to its handler. Events for other contexts are
// ignored without side effects.
func (a *Adapter) HandleEvent(ctx context.Context, ev *models.Event) error {
	handler, ok := a.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind)
	}

	handled, err := handler(ctx, ev)

	outcome := metrics.OutcomeIgnored
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case handled:
		outcome = metrics.OutcomeHandled
	}
	metrics.EventsTotal.WithLabelValues(ev.Kind.String(), outcome).Inc()

	a.log.Debug().
		Str("event", ev.Kind.String()).
		Str("context", string(ev.Context)).
		Str("request_id", ev.RequestID).
		Str("outcome", outcome).
		Msg("Event processed")

	return err
}

// onAfterDelete removes the index entry of a deleted article, or a link
// deleted from the index manager
func (a *Adapter) onAfterDelete(ctx context.Context, ev *models.Event) (bool, error) {
	switch ev.Context {
	case models.ContextJdocmanual:
		return true, a.finder.Remove(ctx, ev.Item.ID)
	case models.ContextFinderIndex:
		return true, a.finder.RemoveLink(ctx, ev.Item.LinkID)
	default:
		return false, nil
	}
}

// onBeforeSave records the persisted access level of an existing article
// so the matching after-save can tell whether it changed
func (a *Adapter) onBeforeSave(ctx context.Context, ev *models.Event) (bool, error) {
	if ev.Context != models.ContextJdocmanual || ev.IsNew {
		return false, nil
	}

	access, err := a.finder.CheckItemAccess(ctx, ev.Item.ID)
	if errors.Is(err, finder.ErrItemNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}

	key := snapshot.Key{RequestID: ev.RequestID, ItemID: ev.Item.ID}
	return true, a.snapshots.Put(ctx, key, access)
}

// onAfterSave propagates an access change, then reindexes the article
func (a *Adapter) onAfterSave(ctx context.Context, ev *models.Event) (bool, error) {
	if ev.Context != models.ContextJdocmanual {
		return false, nil
	}

	if !ev.IsNew {
		key := snapshot.Key{RequestID: ev.RequestID, ItemID: ev.Item.ID}
		oldAccess, ok, err := a.snapshots.Take(ctx, key)
		if err != nil {
			return true, err
		}
		// Without a snapshot the old level is unknown and counts as changed
		if !ok || oldAccess != ev.Item.Access {
			if err := a.finder.ItemAccessChange(ctx, ev.Item.ID); err != nil {
				return true, err
			}
		}
	}

	return true, a.finder.Reindex(ctx, ev.Item.ID)
}

// onChangeState applies a publish/unpublish/archive from the list view, or
// clears the whole index when this plugin gets disabled. Failures are
// logged, never returned.
func (a *Adapter) onChangeState(ctx context.Context, ev *models.Event) (bool, error) {
	handled := false

	if ev.Context == models.ContextJdocmanual {
		handled = true
		if err := a.finder.ItemStateChange(ctx, ev.PKs, ev.Value); err != nil {
			a.log.Error().Err(err).Ints64("pks", ev.PKs).Int("value", ev.Value).Msg("State change failed")
		}
	}

	if ev.Context == models.ContextPlugins && ev.Value == 0 {
		handled = true
		if err := a.finder.RemoveAll(ctx); err != nil {
			a.log.Error().Err(err).Msg("Failed to clear index after plugin disable")
		}
	}

	return handled, nil
}
