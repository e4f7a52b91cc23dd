package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

type ChatService struct {
	dbStore      *store.SQLiteStore
	generator    Generator
	defaultModel string
}

func NewChatService(db *store.SQLiteStore, generator Generator, defaultModel string) *ChatService {
	return &ChatService{
		dbStore:      db,
		generator:    generator,
		defaultModel: defaultModel,
	}
}

// User methods, used by the auth handlers.

func (s *ChatService) GetUserByEmail(email string) (*store.User, error) {
	return s.dbStore.GetUserByEmail(email)
}

func (s *ChatService) CreateUser(email, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(email, passwordHash)
}

// CreateChat starts a conversation, optionally inside a project and
// optionally with a first message that is answered immediately. The project,
// when given, must belong to the calling user.
func (s *ChatService) CreateChat(ctx context.Context, userID string, projectID *string, firstMessageContent *string) (*store.Chat, []store.Message, error) {
	opts, err := s.generationOptions(userID, projectID)
	if err != nil {
		return nil, nil, err
	}

	chat, err := s.dbStore.CreateChat(userID, projectID, nil) // Title will be generated later
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	var messages []store.Message

	if firstMessageContent != nil && *firstMessageContent != "" {
		userMsg := store.Message{
			ChatID:  chat.ID,
			Sender:  "user",
			Content: *firstMessageContent,
		}
		if err := s.dbStore.CreateMessage(&userMsg); err != nil {
			log.Printf("Failed to store first user message for new chat %s: %v", chat.ID, err)
			// Continue, but the chat will be empty initially
		} else {
			messages = append(messages, userMsg)

			modelContent, err := s.generator.Reply(ctx, messages, opts)
			if err != nil {
				log.Printf("Failed to generate initial model response for chat %s: %v", chat.ID, err)
				modelContent = "I encountered an issue trying to respond. Please try again."
			}

			modelMsg := store.Message{
				ChatID:  chat.ID,
				Sender:  "model",
				Content: modelContent,
			}
			if err := s.dbStore.CreateMessage(&modelMsg); err != nil {
				log.Printf("Failed to store initial model message for new chat %s: %v", chat.ID, err)
			} else {
				messages = append(messages, modelMsg)
			}

			// Auto-generate title after first exchange
			go s.generateAndSaveChatTitle(chat.ID, userID, userMsg.Content)
		}
	}

	return chat, messages, nil
}

func (s *ChatService) GetChatDetails(chatID, userID string) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, nil, ErrNotFound
	}

	messages, err := s.dbStore.GetMessagesByChatID(chatID, 100, 0) // Get up to 100 messages
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

// PostMessage appends a user message to an existing chat and returns the
// model's reply. Generation policy follows the chat's current project.
func (s *ChatService) PostMessage(ctx context.Context, chatID, userID, userContent string) (*store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrNotFound
	}

	opts, err := s.generationOptions(userID, chat.ProjectID)
	if err != nil {
		return nil, err
	}

	userMsg := store.Message{
		ChatID:  chatID,
		Sender:  "user",
		Content: userContent,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	history, err := s.dbStore.GetMessagesByChatID(chatID, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	modelContent, err := s.generator.Reply(ctx, history, opts)
	if err != nil {
		log.Printf("Error generating model response for chat %s: %v", chatID, err)
		modelContent = "I'm sorry, I encountered an error while processing your request."
	}

	modelMessage := store.Message{
		ChatID:  chatID,
		Sender:  "model",
		Content: modelContent,
	}
	if err := s.dbStore.CreateMessage(&modelMessage); err != nil {
		return nil, fmt.Errorf("failed to store model message: %w", err)
	}

	if chat.Title == nil || *chat.Title == "" {
		go s.generateAndSaveChatTitle(chatID, userID, userContent)
	}

	return &modelMessage, nil
}

func (s *ChatService) SetMessageFeedback(messageID, userID string, negative bool) error {
	err := s.dbStore.UpdateMessageFeedback(messageID, userID, negative)
	if err != nil {
		if err == store.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// generationOptions resolves the effective model, system prompt and safety
// level. A nil or dangling project reference falls back to the configured
// defaults.
func (s *ChatService) generationOptions(userID string, projectID *string) (GenerationOptions, error) {
	opts := GenerationOptions{
		Model:       s.defaultModel,
		SafetyLevel: SafetyLevelModerate,
	}
	if projectID == nil {
		return opts, nil
	}

	project, err := s.dbStore.GetProjectByID(*projectID, userID)
	if err != nil {
		return GenerationOptions{}, fmt.Errorf("failed to load project settings: %w", err)
	}
	if project == nil {
		return GenerationOptions{}, newValidationError("Project not found")
	}

	opts.Model = project.Settings.DefaultModel
	opts.SafetyLevel = project.Settings.SafetyLevel
	if project.Settings.SystemPrompt != nil {
		opts.SystemPrompt = *project.Settings.SystemPrompt
	}
	return opts, nil
}

func (s *ChatService) generateAndSaveChatTitle(chatID, userID, basisContent string) {
	title, err := s.generator.Title(context.Background(), basisContent)
	if err != nil {
		log.Printf("Failed to generate title for chat %s: %v", chatID, err)
		return
	}
	title = strings.Trim(title, "\"'\n\r\t .")

	if err := s.dbStore.UpdateChatTitle(chatID, userID, title); err != nil {
		log.Printf("Failed to save generated title '%s' for chat %s: %v", title, chatID, err)
	}
}
