// Package snapshot correlates a before-save event with its after-save
// counterpart. The access level read before the save is stored under the
// request id and item id, and taken back out once the save completes.
package snapshot

import (
	"context"
	"strconv"
)

// Key identifies one save of one item within one request. Without a
// request id the item id alone identifies the save.
type Key struct {
	RequestID string
	ItemID    int64
}

// String renders the key as "<request>:<item>"
func (k Key) String() string {
	return k.RequestID + ":" + strconv.FormatInt(k.ItemID, 10)
}

// Store holds access snapshots between the two halves of a save
type Store interface {
	// Put records the access level read before the save
	Put(ctx context.Context, key Key, access int) error
	// Take returns and forgets the recorded access level; ok is false when none was recorded
	Take(ctx context.Context, key Key) (access int, ok bool, err error)
}
