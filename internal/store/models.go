package store

import "time"

type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// ProjectSettings carries the per-project generation policy. SafetyLevel is
// one of "strict", "moderate" or "permissive".
type ProjectSettings struct {
	DefaultModel string  `json:"defaultModel"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
	SafetyLevel  string  `json:"safetyLevel"`
}

type Project struct {
	ID          string          `json:"id"` // UUID
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"` // Nullable
	Settings    ProjectSettings `json:"settings"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Chat struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"user_id"`
	ProjectID *string   `json:"project_id"` // Nullable, nil means unassigned
	Title     *string   `json:"title"`      // Nullable
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID               string    `json:"id"` // UUID
	ChatID           string    `json:"chat_id"`
	Sender           string    `json:"sender"` // "user" or "model"
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	NegativeFeedback bool      `json:"negative_feedback"`
}

type ProjectFile struct {
	ID          string    `json:"id"` // UUID
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        string    `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
