package client

import "github.com/puri-adityakumar/yellow-ai/internal/store"

// projectionCache is the locally cached chat list for the active scope. It
// supports invalidation and predicate/transform patching, independent of how
// the data was fetched. Snapshot and restore give callers an exact rollback
// point around a speculative patch.
type projectionCache struct {
	scope string
	chats []store.Chat
	valid bool
}

func (c *projectionCache) set(scope string, chats []store.Chat) {
	c.scope = scope
	c.chats = chats
	c.valid = true
}

func (c *projectionCache) invalidate() {
	// The stale list stays visible until the next successful fetch; only
	// the validity flag drops.
	c.valid = false
}

func (c *projectionCache) snapshot() []store.Chat {
	snap := make([]store.Chat, len(c.chats))
	copy(snap, c.chats)
	return snap
}

func (c *projectionCache) restore(snap []store.Chat) {
	c.chats = snap
}

// patch transforms every chat matching the predicate. A nil transform drops
// matching chats from the projection.
func (c *projectionCache) patch(predicate func(store.Chat) bool, transform func(store.Chat) store.Chat) {
	patched := make([]store.Chat, 0, len(c.chats))
	for _, chat := range c.chats {
		if !predicate(chat) {
			patched = append(patched, chat)
			continue
		}
		if transform != nil {
			patched = append(patched, transform(chat))
		}
	}
	c.chats = patched
}
