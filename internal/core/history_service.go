package core

import (
	"errors"
	"fmt"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

// HistoryService owns retrieval and filtering of chats by owner and optional
// project scope, plus the chat-to-project reassignment operation.
type HistoryService struct {
	dbStore *store.SQLiteStore
}

func NewHistoryService(db *store.SQLiteStore) *HistoryService {
	return &HistoryService{dbStore: db}
}

func (s *HistoryService) ListByUser(userID string) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserID(userID)
}

// ListByUserAndProject returns the user's chats in the given project scope.
// A nil projectID selects the unassigned chats. The project id itself is not
// ownership-checked here; the operation only filters.
func (s *HistoryService) ListByUserAndProject(userID string, projectID *string) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserIDAndProject(userID, projectID)
}

// Reassign moves a chat into a project (or out of all projects when
// projectID is nil). The target project must belong to the same user as the
// chat; assigning across owners is a validation failure and leaves the chat
// untouched.
func (s *HistoryService) Reassign(userID, chatID string, projectID *string) (*store.Chat, error) {
	chat, err := s.dbStore.GetChatByID(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrNotFound
	}

	if projectID != nil {
		project, err := s.dbStore.GetProjectByID(*projectID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify project: %w", err)
		}
		if project == nil {
			return nil, newValidationError("Project not found")
		}
	}

	if err := s.dbStore.UpdateChatProject(chatID, userID, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reassign chat: %w", err)
	}

	chat.ProjectID = projectID
	return chat, nil
}

func (s *HistoryService) DeleteChat(userID, chatID string) error {
	err := s.dbStore.DeleteChat(chatID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}
