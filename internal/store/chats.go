package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateChat(userID string, projectID *string, title *string) (*Chat, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec("INSERT INTO chats (id, user_id, project_id, title, created_at) VALUES (?, ?, ?, ?, ?)",
		id, userID, projectID, title, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat: %w", err)
	}
	return &Chat{ID: id, UserID: userID, ProjectID: projectID, Title: title, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetChatByID(chatID, userID string) (*Chat, error) {
	row := s.db.QueryRow("SELECT id, user_id, project_id, title, created_at FROM chats WHERE id = ? AND user_id = ?",
		chatID, userID)
	chat, err := scanChat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

func (s *SQLiteStore) GetChatsByUserID(userID string) ([]Chat, error) {
	rows, err := s.db.Query("SELECT id, user_id, project_id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()
	return scanChats(rows)
}

// GetChatsByUserIDAndProject filters by project membership. A nil projectID
// selects the unassigned chats (project_id IS NULL).
func (s *SQLiteStore) GetChatsByUserIDAndProject(userID string, projectID *string) ([]Chat, error) {
	var rows *sql.Rows
	var err error
	if projectID == nil {
		rows, err = s.db.Query("SELECT id, user_id, project_id, title, created_at FROM chats WHERE user_id = ? AND project_id IS NULL ORDER BY created_at DESC",
			userID)
	} else {
		rows, err = s.db.Query("SELECT id, user_id, project_id, title, created_at FROM chats WHERE user_id = ? AND project_id = ? ORDER BY created_at DESC",
			userID, *projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()
	return scanChats(rows)
}

func (s *SQLiteStore) UpdateChatProject(chatID, userID string, projectID *string) error {
	res, err := s.db.Exec("UPDATE chats SET project_id = ? WHERE id = ? AND user_id = ?",
		projectID, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to update chat project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateChatTitle(chatID, userID, title string) error {
	res, err := s.db.Exec("UPDATE chats SET title = ? WHERE id = ? AND user_id = ?",
		title, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to update chat title: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteChat(chatID, userID string) error {
	res, err := s.db.Exec("DELETE FROM chats WHERE id = ? AND user_id = ?", chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanChat(row rowScanner) (*Chat, error) {
	var chat Chat
	var projectID, title sql.NullString
	if err := row.Scan(&chat.ID, &chat.UserID, &projectID, &title, &chat.CreatedAt); err != nil {
		return nil, err
	}
	if projectID.Valid {
		chat.ProjectID = &projectID.String
	}
	if title.Valid {
		chat.Title = &title.String
	}
	return &chat, nil
}

func scanChats(rows *sql.Rows) ([]Chat, error) {
	chats := []Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}
