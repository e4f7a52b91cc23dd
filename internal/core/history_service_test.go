package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

func TestListByUserAndProjectScoping(t *testing.T) {
	s := newTestStore(t)
	projects := NewProjectService(s, testDefaultModel)
	history := NewHistoryService(s)
	user := newTestUser(t, s, "alice@example.com")

	p1, err := projects.CreateProject(user.ID, "Research", nil, nil)
	require.NoError(t, err)

	chatA, err := s.CreateChat(user.ID, &p1.ID, nil)
	require.NoError(t, err)
	chatB, err := s.CreateChat(user.ID, nil, nil)
	require.NoError(t, err)

	scoped, err := history.ListByUserAndProject(user.ID, &p1.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, chatA.ID, scoped[0].ID)

	unassigned, err := history.ListByUserAndProject(user.ID, nil)
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, chatB.ID, unassigned[0].ID)

	all, err := history.ListByUser(user.ID)
	require.NoError(t, err)
	ids := chatIDs(all)
	assert.ElementsMatch(t, []string{chatA.ID, chatB.ID}, ids)
}

// The unassigned scope plus every per-project scope must partition the full
// chat list: no chat missing, no chat counted twice.
func TestScopePartitionProperty(t *testing.T) {
	s := newTestStore(t)
	projects := NewProjectService(s, testDefaultModel)
	history := NewHistoryService(s)
	user := newTestUser(t, s, "alice@example.com")

	p1, err := projects.CreateProject(user.ID, "One", nil, nil)
	require.NoError(t, err)
	p2, err := projects.CreateProject(user.ID, "Two", nil, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = s.CreateChat(user.ID, &p1.ID, nil)
		require.NoError(t, err)
	}
	_, err = s.CreateChat(user.ID, &p2.ID, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = s.CreateChat(user.ID, nil, nil)
		require.NoError(t, err)
	}

	var union []string
	unassigned, err := history.ListByUserAndProject(user.ID, nil)
	require.NoError(t, err)
	union = append(union, chatIDs(unassigned)...)

	owned, err := projects.ListProjects(user.ID)
	require.NoError(t, err)
	for _, p := range owned {
		scoped, err := history.ListByUserAndProject(user.ID, &p.ID)
		require.NoError(t, err)
		union = append(union, chatIDs(scoped)...)
	}

	all, err := history.ListByUser(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, chatIDs(all), union)
}

func TestReassignChat(t *testing.T) {
	s := newTestStore(t)
	projects := NewProjectService(s, testDefaultModel)
	history := NewHistoryService(s)
	user := newTestUser(t, s, "alice@example.com")

	p1, err := projects.CreateProject(user.ID, "Research", nil, nil)
	require.NoError(t, err)

	chat, err := s.CreateChat(user.ID, nil, nil)
	require.NoError(t, err)

	moved, err := history.Reassign(user.ID, chat.ID, &p1.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ProjectID)
	assert.Equal(t, p1.ID, *moved.ProjectID)

	// And back out again.
	moved, err = history.Reassign(user.ID, chat.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ProjectID)
}

func TestReassignToForeignProjectFails(t *testing.T) {
	s := newTestStore(t)
	projects := NewProjectService(s, testDefaultModel)
	history := NewHistoryService(s)
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	bobsProject, err := projects.CreateProject(bob.ID, "Bob's", nil, nil)
	require.NoError(t, err)

	chat, err := s.CreateChat(alice.ID, nil, nil)
	require.NoError(t, err)

	_, err = history.Reassign(alice.ID, chat.ID, &bobsProject.ID)
	assert.True(t, IsValidation(err), "cross-user assignment must be a validation failure")

	// The chat's reference is untouched.
	unchanged, err := s.GetChatByID(chat.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.ProjectID)
}

func TestReassignMissingChat(t *testing.T) {
	s := newTestStore(t)
	history := NewHistoryService(s)
	user := newTestUser(t, s, "alice@example.com")

	_, err := history.Reassign(user.ID, "does-not-exist", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteChat(t *testing.T) {
	s := newTestStore(t)
	history := NewHistoryService(s)
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	chat, err := s.CreateChat(alice.ID, nil, nil)
	require.NoError(t, err)

	// Another user cannot delete it.
	assert.ErrorIs(t, history.DeleteChat(bob.ID, chat.ID), ErrNotFound)

	require.NoError(t, history.DeleteChat(alice.ID, chat.ID))
	assert.ErrorIs(t, history.DeleteChat(alice.ID, chat.ID), ErrNotFound)
}

// Create project "Research", assign chat A to it, leave chat B unassigned,
// then verify each scope returns exactly what it should.
func TestResearchScenario(t *testing.T) {
	s := newTestStore(t)
	projects := NewProjectService(s, testDefaultModel)
	history := NewHistoryService(s)
	user := newTestUser(t, s, "alice@example.com")

	p1, err := projects.CreateProject(user.ID, "Research", nil, nil)
	require.NoError(t, err)

	chatA, err := s.CreateChat(user.ID, nil, nil)
	require.NoError(t, err)
	chatB, err := s.CreateChat(user.ID, nil, nil)
	require.NoError(t, err)

	_, err = history.Reassign(user.ID, chatA.ID, &p1.ID)
	require.NoError(t, err)

	scoped, err := history.ListByUserAndProject(user.ID, &p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{chatA.ID}, chatIDs(scoped))

	unassigned, err := history.ListByUserAndProject(user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{chatB.ID}, chatIDs(unassigned))

	all, err := history.ListByUser(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{chatA.ID, chatB.ID}, chatIDs(all))
}

func chatIDs(chats []store.Chat) []string {
	ids := make([]string, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ID)
	}
	return ids
}
