package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, s.Set("theme", "dark"))
	require.NoError(t, s.Set("selectedProject", "p1"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	value, ok := reopened.Get("selectedProject")
	require.True(t, ok)
	assert.Equal(t, "p1", value)

	_, ok = reopened.Get("missing")
	assert.False(t, ok)
}

func TestSelectionRoundTrip(t *testing.T) {
	s, _ := newTestFileStore(t)
	selection := NewSelectionState(s)

	assert.Equal(t, "", selection.Get())

	selection.Set("project-1")
	assert.Equal(t, "project-1", selection.Get())

	selection.Set(ViewAllScope)
	assert.Equal(t, ViewAllScope, selection.Get())
}

// Selecting "no project" is visible in memory but never written to storage,
// so a restart lands back on whatever was persisted before it.
func TestEmptySelectionIsNotPersisted(t *testing.T) {
	s, path := newTestFileStore(t)
	selection := NewSelectionState(s)

	selection.Set("project-1")
	selection.Set("")
	assert.Equal(t, "", selection.Get())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	restored := NewSelectionState(reopened)
	restored.Restore()
	assert.Equal(t, "project-1", restored.Get())
}

func TestRestoreWithNothingStored(t *testing.T) {
	s, _ := newTestFileStore(t)
	selection := NewSelectionState(s)
	selection.Restore()
	assert.Equal(t, "", selection.Get())
}

// A stored id for a project that no longer exists is restored as-is; the
// history view simply shows an empty list for it.
func TestRestoreKeepsDanglingProjectID(t *testing.T) {
	s, _ := newTestFileStore(t)
	require.NoError(t, s.Set("selectedProject", "deleted-project"))

	selection := NewSelectionState(s)
	selection.Restore()
	assert.Equal(t, "deleted-project", selection.Get())
}

func TestSubscribersNotifiedOnSet(t *testing.T) {
	s, _ := newTestFileStore(t)
	selection := NewSelectionState(s)

	var seen []string
	selection.Subscribe(func(value string) {
		seen = append(seen, value)
	})

	selection.Set("project-1")
	selection.Set("")
	selection.Set(ViewAllScope)

	assert.Equal(t, []string{"project-1", "", ViewAllScope}, seen)
}
