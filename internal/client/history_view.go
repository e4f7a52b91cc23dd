package client

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

// NoProjectLabel is the display label for the group of unassigned chats.
const NoProjectLabel = "No Project"

// Notifier surfaces transient action outcomes to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// ChatGroup is one partition of the chat list under the view-all scope. Key
// is the raw project reference ("" for unassigned); Label is resolved
// against the last-fetched project list.
type ChatGroup struct {
	Key   string
	Label string
	Chats []store.Chat
}

// HistoryView reconciles the selection state, the chat history API and the
// project list into a renderable structure, and runs the user actions with
// optimistic local-cache updates.
type HistoryView struct {
	api       *APIClient
	selection *SelectionState
	notifier  Notifier

	// confirm gates destructive project deletion; it blocks until the user
	// acknowledges.
	confirm func(prompt string) bool

	mu       sync.Mutex
	cache    projectionCache
	projects []store.Project
	fetchSeq uint64
	applied  uint64
}

func NewHistoryView(api *APIClient, selection *SelectionState, notifier Notifier, confirm func(prompt string) bool) *HistoryView {
	v := &HistoryView{
		api:       api,
		selection: selection,
		notifier:  notifier,
		confirm:   confirm,
	}
	selection.Subscribe(func(string) {
		v.mu.Lock()
		v.cache.invalidate()
		v.mu.Unlock()
	})
	return v
}

// Refresh fetches the chat list for the currently selected scope. A response
// that arrives after the selection moved on is discarded, so an older
// scope's results never overwrite a newer selection. On failure the previous
// list stays visible; the next scope or route change retries implicitly.
func (v *HistoryView) Refresh(ctx context.Context) error {
	scope := v.selection.Get()

	v.mu.Lock()
	v.fetchSeq++
	seq := v.fetchSeq
	v.mu.Unlock()

	chats, err := v.api.History(ctx, scope)
	if err != nil {
		log.Printf("Failed to fetch chat history: %v", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if scope != v.selection.Get() || seq < v.applied {
		return nil // stale response, a newer selection owns the view
	}
	v.applied = seq
	v.cache.set(scope, chats)
	return nil
}

// RouteChanged re-fetches the current scope; called when the active chat
// route changes so the list stays fresh after navigation.
func (v *HistoryView) RouteChanged(ctx context.Context) {
	_ = v.Refresh(ctx) // on failure the previous list stays visible
}

// RefreshProjects fetches the project list used for group labels and the
// assignment menu.
func (v *HistoryView) RefreshProjects(ctx context.Context) error {
	projects, err := v.api.ListProjects(ctx)
	if err != nil {
		log.Printf("Failed to fetch projects: %v", err)
		return err
	}
	v.mu.Lock()
	v.projects = projects
	v.mu.Unlock()
	return nil
}

// Chats returns the cached chat list for the active scope.
func (v *HistoryView) Chats() []store.Chat {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.snapshot()
}

// Projects returns the last-fetched project list.
func (v *HistoryView) Projects() []store.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	projects := make([]store.Project, len(v.projects))
	copy(projects, v.projects)
	return projects
}

// Groups partitions the cached chats by project reference, in order of first
// encounter. Only meaningful when the view-all scope is active; other scopes
// yield a single anonymous group. Labels fall back to the raw project id
// when the project list does not know it, and to NoProjectLabel for the
// unassigned group.
func (v *HistoryView) Groups() []ChatGroup {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cache.scope != ViewAllScope {
		return []ChatGroup{{Key: v.cache.scope, Chats: v.cache.snapshot()}}
	}

	index := map[string]int{}
	groups := []ChatGroup{}
	for _, chat := range v.cache.chats {
		key := ""
		if chat.ProjectID != nil {
			key = *chat.ProjectID
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ChatGroup{Key: key, Label: v.groupLabel(key)})
		}
		groups[i].Chats = append(groups[i].Chats, chat)
	}
	return groups
}

func (v *HistoryView) groupLabel(key string) string {
	if key == "" {
		return NoProjectLabel
	}
	for _, p := range v.projects {
		if p.ID == key {
			return p.Name
		}
	}
	return key // project vanished or not yet fetched, show the raw id
}

// DeleteChat removes a chat. On success the cached list is patched locally
// without a re-fetch; on failure the cache is left exactly as it was and a
// notification is surfaced. No retry.
func (v *HistoryView) DeleteChat(ctx context.Context, chatID string) {
	if err := v.api.DeleteChat(ctx, chatID); err != nil {
		log.Printf("Failed to delete chat %s: %v", chatID, err)
		v.notifier.Error("Failed to delete chat")
		return
	}

	v.mu.Lock()
	v.cache.patch(func(c store.Chat) bool { return c.ID == chatID }, nil)
	v.mu.Unlock()
	v.notifier.Success("Chat deleted successfully")
}

// ReassignChat moves a chat between projects. Success triggers a full
// re-fetch of the current scope, because the chat may have to leave the
// group currently on screen; a local patch would not know where it went.
func (v *HistoryView) ReassignChat(ctx context.Context, chatID string, projectID *string) {
	if err := v.api.ReassignChat(ctx, chatID, projectID); err != nil {
		log.Printf("Failed to move chat %s: %v", chatID, err)
		v.notifier.Error("Failed to move chat to project")
		return
	}

	v.notifier.Success("Chat moved to project successfully")
	_ = v.Refresh(ctx)
}

// CreateProject creates a project, appends it to the cached project list and
// switches the selection to it. Validation failures surface the
// server-reported message.
func (v *HistoryView) CreateProject(ctx context.Context, name string, description *string, settings *store.ProjectSettings) {
	project, err := v.api.CreateProject(ctx, name, description, settings)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			v.notifier.Error(apiErr.Message)
		} else {
			v.notifier.Error("Failed to create project")
		}
		return
	}

	v.mu.Lock()
	v.projects = append(v.projects, *project)
	v.mu.Unlock()

	v.selection.Set(project.ID)
	v.notifier.Success("Project created successfully")
}

// DeleteProject asks for confirmation, then deletes the project. On success
// it drops the project from the cache and, when the deleted project was the
// active selection, resets the selection to the unassigned scope.
func (v *HistoryView) DeleteProject(ctx context.Context, projectID string) {
	if !v.confirm("Are you sure you want to delete this project?") {
		return
	}

	if err := v.api.DeleteProject(ctx, projectID); err != nil {
		log.Printf("Failed to delete project %s: %v", projectID, err)
		v.notifier.Error("Failed to delete project")
		return
	}

	v.mu.Lock()
	kept := v.projects[:0]
	for _, p := range v.projects {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	v.projects = kept
	v.mu.Unlock()

	if v.selection.Get() == projectID {
		v.selection.Set("")
	}
	v.notifier.Success("Project deleted successfully")
}
