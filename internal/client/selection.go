package client

import (
	"log"
	"sync"
)

// ViewAllScope is the sentinel selection value meaning "no filtering". It is
// never a real project id. The empty string means the unassigned scope.
const ViewAllScope = "VIEW_ALL"

const selectionStorageKey = "selectedProject"

// SelectionState is the single cell tracking which project scope is active
// for browsing and composing. It is the one owner of restore-from-storage;
// components read, write and subscribe through it instead of touching the
// local store directly.
type SelectionState struct {
	storage KeyValueStore

	mu          sync.Mutex
	value       string
	subscribers []func(string)
}

func NewSelectionState(storage KeyValueStore) *SelectionState {
	return &SelectionState{storage: storage}
}

// Get returns the current scope: "", ViewAllScope, or a project id.
func (s *SelectionState) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set overwrites the cell and notifies subscribers. Only non-empty values
// are persisted; an empty selection updates memory but leaves the stored key
// untouched, so a reload after selecting "no project" restores whatever was
// selected before it. Kept as shipped; see the open question in DESIGN.md.
func (s *SelectionState) Set(value string) {
	s.mu.Lock()
	s.value = value
	subscribers := make([]func(string), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	if value != "" {
		if err := s.storage.Set(selectionStorageKey, value); err != nil {
			log.Printf("Failed to persist selected project: %v", err)
		}
	}

	for _, fn := range subscribers {
		fn(value)
	}
}

// Restore seeds the cell from local storage at startup. A stored project id
// that no longer exists is kept as-is; downstream filtering simply yields an
// empty list for it.
func (s *SelectionState) Restore() {
	saved, ok := s.storage.Get(selectionStorageKey)
	if !ok || saved == "" {
		return
	}
	s.mu.Lock()
	s.value = saved
	s.mu.Unlock()
}

// Subscribe registers fn to run after every Set. Subscribers are called
// outside the state lock.
func (s *SelectionState) Subscribe(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
