package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

type fakeGenerator struct {
	mu       sync.Mutex
	lastOpts GenerationOptions
	reply    string
}

func (g *fakeGenerator) Reply(ctx context.Context, history []store.Message, opts GenerationOptions) (string, error) {
	g.mu.Lock()
	g.lastOpts = opts
	g.mu.Unlock()
	return g.reply, nil
}

func (g *fakeGenerator) Title(ctx context.Context, basis string) (string, error) {
	return "Generated Title", nil
}

func (g *fakeGenerator) options() GenerationOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastOpts
}

func TestCreateChatUnassignedUsesFallbackPolicy(t *testing.T) {
	s := newTestStore(t)
	gen := &fakeGenerator{reply: "hello"}
	svc := NewChatService(s, gen, testDefaultModel)
	user := newTestUser(t, s, "alice@example.com")

	first := "hi there"
	chat, messages, err := svc.CreateChat(context.Background(), user.ID, nil, &first)
	require.NoError(t, err)
	assert.Nil(t, chat.ProjectID)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "model", messages[1].Sender)
	assert.Equal(t, "hello", messages[1].Content)

	opts := gen.options()
	assert.Equal(t, testDefaultModel, opts.Model)
	assert.Equal(t, SafetyLevelModerate, opts.SafetyLevel)
	assert.Empty(t, opts.SystemPrompt)
}

func TestCreateChatInheritsProjectPolicy(t *testing.T) {
	s := newTestStore(t)
	gen := &fakeGenerator{reply: "hello"}
	svc := NewChatService(s, gen, testDefaultModel)
	projects := NewProjectService(s, testDefaultModel)
	user := newTestUser(t, s, "alice@example.com")

	prompt := "You are a terse research assistant."
	project, err := projects.CreateProject(user.ID, "Research", nil, &store.ProjectSettings{
		DefaultModel: "gemini-2.5-pro",
		SystemPrompt: &prompt,
		SafetyLevel:  SafetyLevelStrict,
	})
	require.NoError(t, err)

	first := "hi there"
	chat, _, err := svc.CreateChat(context.Background(), user.ID, &project.ID, &first)
	require.NoError(t, err)
	require.NotNil(t, chat.ProjectID)
	assert.Equal(t, project.ID, *chat.ProjectID)

	opts := gen.options()
	assert.Equal(t, "gemini-2.5-pro", opts.Model)
	assert.Equal(t, SafetyLevelStrict, opts.SafetyLevel)
	assert.Equal(t, prompt, opts.SystemPrompt)
}

func TestCreateChatRejectsForeignProject(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeGenerator{}, testDefaultModel)
	projects := NewProjectService(s, testDefaultModel)
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	bobsProject, err := projects.CreateProject(bob.ID, "Bob's", nil, nil)
	require.NoError(t, err)

	_, _, err = svc.CreateChat(context.Background(), alice.ID, &bobsProject.ID, nil)
	assert.True(t, IsValidation(err))
}

func TestPostMessageAppendsExchange(t *testing.T) {
	s := newTestStore(t)
	gen := &fakeGenerator{reply: "the answer"}
	svc := NewChatService(s, gen, testDefaultModel)
	user := newTestUser(t, s, "alice@example.com")

	chat, _, err := svc.CreateChat(context.Background(), user.ID, nil, nil)
	require.NoError(t, err)

	reply, err := svc.PostMessage(context.Background(), chat.ID, user.ID, "what is the answer?")
	require.NoError(t, err)
	assert.Equal(t, "model", reply.Sender)
	assert.Equal(t, "the answer", reply.Content)

	_, messages, err := svc.GetChatDetails(chat.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "what is the answer?", messages[0].Content)
}

func TestPostMessageMissingChat(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeGenerator{}, testDefaultModel)
	user := newTestUser(t, s, "alice@example.com")

	_, err := svc.PostMessage(context.Background(), "does-not-exist", user.ID, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetChatDetailsNotOwned(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeGenerator{}, testDefaultModel)
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	chat, _, err := svc.CreateChat(context.Background(), alice.ID, nil, nil)
	require.NoError(t, err)

	_, _, err = svc.GetChatDetails(chat.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
