package models

import "fmt"

// EventKind is one of the content lifecycle events the finder reacts to
type EventKind int

const (
	EventAfterDelete EventKind = iota + 1
	EventBeforeSave
	EventAfterSave
	EventChangeState
)

var eventKindNames = map[EventKind]string{
	EventAfterDelete: "onFinderAfterDelete",
	EventBeforeSave:  "onFinderBeforeSave",
	EventAfterSave:   "onFinderAfterSave",
	EventChangeState: "onFinderChangeState",
}

// String returns the host event name
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind maps a host event name onto an EventKind
func ParseEventKind(name string) (EventKind, error) {
	for kind, n := range eventKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// Context tags the content type or subsystem an event pertains to
type Context string

const (
	ContextJdocmanual  Context = "com_jdocmanual.jdocmanual"
	ContextFinderIndex Context = "com_finder.index"
	ContextPlugins     Context = "com_plugins.plugin"
)

// EventItem is the affected row carried by delete and save events
type EventItem struct {
	ID     int64 `json:"id"`
	LinkID int64 `json:"link_id,omitempty"`
	Access int   `json:"access"`
}

// Event is a content lifecycle event delivered by the host
type Event struct {
	Kind      EventKind `json:"-"`
	Name      string    `json:"event" binding:"required"`
	Context   Context   `json:"context"`
	RequestID string    `json:"request_id,omitempty"`
	Item      EventItem `json:"item"`
	IsNew     bool      `json:"is_new"`
	PKs       []int64   `json:"pks,omitempty"`
	Value     int       `json:"value"`
}
