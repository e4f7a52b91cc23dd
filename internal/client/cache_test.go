package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

func cacheIDs(chats []store.Chat) []string {
	ids := make([]string, len(chats))
	for i, c := range chats {
		ids[i] = c.ID
	}
	return ids
}

func TestCachePatchDropsAndTransforms(t *testing.T) {
	var c projectionCache
	c.set(ViewAllScope, []store.Chat{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	// nil transform drops the match.
	c.patch(func(chat store.Chat) bool { return chat.ID == "b" }, nil)
	assert.Equal(t, []string{"a", "c"}, cacheIDs(c.chats))

	// A transform rewrites it in place.
	projectID := "p1"
	c.patch(
		func(chat store.Chat) bool { return chat.ID == "c" },
		func(chat store.Chat) store.Chat {
			chat.ProjectID = &projectID
			return chat
		},
	)
	assert.Equal(t, []string{"a", "c"}, cacheIDs(c.chats))
	assert.Equal(t, &projectID, c.chats[1].ProjectID)
}

// A speculative patch can be rolled back exactly with snapshot/restore.
func TestCacheSnapshotRestoreRollsBackPatch(t *testing.T) {
	var c projectionCache
	c.set(ViewAllScope, []store.Chat{{ID: "a"}, {ID: "b"}})

	snap := c.snapshot()
	c.patch(func(chat store.Chat) bool { return chat.ID == "a" }, nil)
	assert.Equal(t, []string{"b"}, cacheIDs(c.chats))

	c.restore(snap)
	assert.Equal(t, []string{"a", "b"}, cacheIDs(c.chats))
}

func TestCacheInvalidateKeepsStaleList(t *testing.T) {
	var c projectionCache
	c.set("p1", []store.Chat{{ID: "a"}})

	c.invalidate()
	assert.False(t, c.valid)
	assert.Equal(t, []string{"a"}, cacheIDs(c.chats))

	c.set("p2", []store.Chat{{ID: "b"}})
	assert.True(t, c.valid)
	assert.Equal(t, "p2", c.scope)
}
